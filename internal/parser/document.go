package parser

import (
	"fmt"
	"strings"
)

// Origin locates a block or directive in its source file.
type Origin struct {
	File string
	Line int
}

func (o Origin) String() string {
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// Tangle is a block's tangle request. The zero value means the block is not
// tangled. ":tangle <path>" sets Path; ":tangle yes" sets Derive, asking for
// a target derived from the document stem and the block language at routing
// time.
type Tangle struct {
	Path   string
	Derive bool
}

// Requested reports whether the block asked to be tangled at all.
func (t Tangle) Requested() bool {
	return t.Derive || t.Path != ""
}

// Param is a ":key value" header argument the parser does not interpret.
type Param struct {
	Key   string
	Value string
}

// Block is one source block with its header metadata and content.
type Block struct {
	Name     string
	Language string
	Tangle   Tangle
	FileName string // ":file" output-name override
	Switches []string
	Params   []Param
	Deps     []string
	Lines    []string // content, byte-preserved
	Origin   Origin
	// ViaInclude marks blocks spliced in through an #+INCLUDE directive.
	ViaInclude bool
}

// Content returns the block body as a single string, no trailing newline.
func (b *Block) Content() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Block) Pos() Origin { return b.Origin }

// Include is an unexpanded #+INCLUDE directive. Raw imports carry the name
// and deps that were pending when the directive appeared.
type Include struct {
	Path     string
	Raw      bool   // import the file verbatim as a single block
	Language string // block language (raw) or splice filter (document)
	Tangle   Tangle // directive-level override for the spliced blocks
	Name     string
	Deps     []string
	Origin   Origin
}

func (i *Include) Pos() Origin { return i.Origin }

// Node is an element of a parsed document: a *Block or an *Include, in
// document order.
type Node interface {
	Pos() Origin
}

// SrcLangDecl is one #+SRC_LANG registration.
type SrcLangDecl struct {
	Language string
	Ext      string
}

// Document is one parsed source file, includes not yet expanded.
type Document struct {
	File     string
	Nodes    []Node
	SrcLangs []SrcLangDecl
}

// Blocks returns the document's blocks in order, skipping include nodes.
func (d *Document) Blocks() []*Block {
	var blocks []*Block
	for _, n := range d.Nodes {
		if b, ok := n.(*Block); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
