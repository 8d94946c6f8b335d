// Package resolve expands #+INCLUDE directives into a flat block sequence.
//
// Expansion is depth-first and bottom-up: a document's includes are fully
// expanded before their blocks take the directive's position. The active
// inclusion chain travels down the recursion, so a document may be spliced
// from several sibling sites (a diamond) but never from inside itself.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/igor37/exorg/internal/lang"
	"github.com/igor37/exorg/internal/parser"
)

// DefaultMaxDepth bounds include nesting when no limit is configured.
const DefaultMaxDepth = 64

// Result is a fully expanded document.
type Result struct {
	// File is the cleaned path of the root document.
	File string
	// Blocks is the expanded sequence, document order, includes spliced.
	Blocks []*parser.Block
	// Langs is the extension table with every #+SRC_LANG registration
	// merged in. Registrations nearer the root win on conflict.
	Langs *lang.Table
	// Visited lists every file read during expansion, root first, in
	// first-visit order. Watch mode re-runs on changes to any of them.
	Visited []string
}

// Resolver reads, parses and expands documents.
type Resolver struct {
	log      *zap.SugaredLogger
	parser   *parser.Parser
	maxDepth int
}

// New returns a resolver with a default parser, no logging and the default
// depth limit.
func New() *Resolver {
	return &Resolver{
		log:      zap.NewNop().Sugar(),
		parser:   parser.New(),
		maxDepth: DefaultMaxDepth,
	}
}

// WithLogger sets the logger for expansion tracing.
func (r *Resolver) WithLogger(log *zap.SugaredLogger) *Resolver {
	if log != nil {
		r.log = log
	}
	return r
}

// WithParser sets the parser used for every document, including included
// ones.
func (r *Resolver) WithParser(p *parser.Parser) *Resolver {
	if p != nil {
		r.parser = p
	}
	return r
}

// WithMaxDepth sets the include nesting limit. Zero forbids includes
// entirely; negative values restore the default.
func (r *Resolver) WithMaxDepth(n int) *Resolver {
	if n < 0 {
		n = DefaultMaxDepth
	}
	r.maxDepth = n
	return r
}

// state accumulates results across the recursion.
type state struct {
	langs   *lang.Table
	visited []string
	seen    map[string]bool
}

func (st *state) visit(path string) {
	if !st.seen[path] {
		st.seen[path] = true
		st.visited = append(st.visited, path)
	}
}

// ResolveFile reads the root document and expands it.
func (r *Resolver) ResolveFile(path string) (*Result, error) {
	root := filepath.Clean(path)
	text, err := os.ReadFile(root)
	if err != nil {
		return nil, err
	}
	doc, err := r.parser.Parse(root, string(text))
	if err != nil {
		return nil, err
	}

	st := &state{langs: lang.NewTable(), seen: make(map[string]bool)}
	st.visit(root)
	blocks, err := r.expandDoc(doc, []string{root}, st)
	if err != nil {
		return nil, err
	}
	return &Result{File: root, Blocks: blocks, Langs: st.langs, Visited: st.visited}, nil
}

// expandDoc walks a parsed document's nodes, splicing includes in place.
// chain holds the documents from the root to doc itself. The document's own
// #+SRC_LANG registrations are merged after its includes, so outer documents
// override inner ones.
func (r *Resolver) expandDoc(doc *parser.Document, chain []string, st *state) ([]*parser.Block, error) {
	var blocks []*parser.Block
	for _, node := range doc.Nodes {
		switch n := node.(type) {
		case *parser.Block:
			blocks = append(blocks, n)

		case *parser.Include:
			target := includePath(doc.File, n.Path)
			if len(chain) > r.maxDepth {
				return nil, &DepthError{Path: target, Max: r.maxDepth}
			}
			if n.Raw {
				b, err := r.rawImport(n, target, st)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, b)
				continue
			}
			spliced, err := r.expandInclude(n, target, chain, st)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, spliced...)
		}
	}
	for _, sl := range doc.SrcLangs {
		st.langs.Register(sl.Language, sl.Ext)
	}
	return blocks, nil
}

// expandInclude reads and expands one document include, then applies the
// directive's language filter and tangle override to the spliced blocks.
func (r *Resolver) expandInclude(n *parser.Include, target string, chain []string, st *state) ([]*parser.Block, error) {
	for _, on := range chain {
		if on == target {
			return nil, &CycleError{Path: target, Chain: append([]string(nil), chain...)}
		}
	}
	text, err := os.ReadFile(target)
	if err != nil {
		return nil, &NotFoundError{Path: target, Err: err}
	}
	st.visit(target)
	r.log.Debugf("including %s from %s", target, n.Origin)

	doc, err := r.parser.Parse(target, string(text))
	if err != nil {
		return nil, err
	}
	spliced, err := r.expandDoc(doc, append(chain, target), st)
	if err != nil {
		return nil, err
	}

	if n.Language != "" {
		kept := spliced[:0]
		for _, b := range spliced {
			if strings.EqualFold(b.Language, n.Language) {
				kept = append(kept, b)
			}
		}
		spliced = kept
	}
	for _, b := range spliced {
		b.ViaInclude = true
		if n.Tangle.Requested() {
			b.Tangle = n.Tangle
		}
	}
	r.log.Debugf("spliced %d block(s) from %s", len(spliced), target)
	return spliced, nil
}

// rawImport reads a file verbatim as a single block. The directive supplies
// the language, the consumed name/deps registers and the tangle target.
// Cycles are impossible here: raw imports never recurse, so importing an
// ancestor's text is allowed.
func (r *Resolver) rawImport(n *parser.Include, target string, st *state) (*parser.Block, error) {
	text, err := os.ReadFile(target)
	if err != nil {
		return nil, &NotFoundError{Path: target, Err: err}
	}
	st.visit(target)
	r.log.Debugf("importing %s verbatim from %s", target, n.Origin)

	return &parser.Block{
		Name:       n.Name,
		Language:   n.Language,
		Tangle:     n.Tangle,
		Deps:       n.Deps,
		Lines:      rawLines(string(text)),
		Origin:     parser.Origin{File: target, Line: 1},
		ViaInclude: true,
	}, nil
}

// includePath resolves an include spec against the including file's
// directory.
func includePath(from, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(filepath.Dir(from), path)
}

func rawLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
