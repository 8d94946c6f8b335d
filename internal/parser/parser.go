// Package parser assembles scanner events into a document model: source
// blocks with their header metadata, and unexpanded include directives.
package parser

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/igor37/exorg/internal/scanner"
)

// OrphanedNameError reports a #+NAME directive whose name never attached to
// a block, either because a later #+NAME replaced it or because the document
// ended first. It is returned only in strict mode; otherwise the parser logs
// a warning and moves on.
type OrphanedNameError struct {
	File string
	Line int
	Name string
}

func (e *OrphanedNameError) Error() string {
	return fmt.Sprintf("%s:%d: block name %q never attaches to a block", e.File, e.Line, e.Name)
}

// Parser turns document text into a Document. The zero value is not usable;
// create one with New.
type Parser struct {
	log    *zap.SugaredLogger
	strict bool
}

// New returns a parser that logs nowhere and tolerates orphaned names.
func New() *Parser {
	return &Parser{log: zap.NewNop().Sugar()}
}

// WithLogger sets the logger for parse-time warnings.
func (p *Parser) WithLogger(log *zap.SugaredLogger) *Parser {
	if log != nil {
		p.log = log
	}
	return p
}

// WithStrict makes orphaned block names a hard error instead of a warning.
func (p *Parser) WithStrict(strict bool) *Parser {
	p.strict = strict
	return p
}

// pending holds directive state waiting for the block that consumes it.
type pending struct {
	name     string
	nameLine int
	hasName  bool
	deps     []string
	file     string
}

// Parse scans text and builds the document model for it. file names the
// source in positions and errors; nothing is read from disk.
func (p *Parser) Parse(file, text string) (*Document, error) {
	doc := &Document{File: file}
	var (
		pend pending
		cur  *Block
	)

	s := scanner.New(file, text)
	for s.Scan() {
		ev := s.Event()

		if cur != nil {
			switch ev.Kind {
			case scanner.End:
				doc.Nodes = append(doc.Nodes, cur)
				cur = nil
			default:
				cur.Lines = append(cur.Lines, ev.Text)
			}
			continue
		}

		switch ev.Kind {
		case scanner.Plain:
			// Prose between blocks carries no meaning here.

		case scanner.Name:
			if ev.Text == "" {
				continue
			}
			if pend.hasName {
				if err := p.orphaned(file, pend); err != nil {
					return nil, err
				}
			}
			pend.name = ev.Text
			pend.nameLine = ev.Line
			pend.hasName = true

		case scanner.Deps:
			pend.deps = strings.Fields(ev.Text)

		case scanner.File:
			pend.file = ev.Text

		case scanner.SrcLang:
			fields := strings.Fields(ev.Text)
			if len(fields) != 2 {
				p.log.Warnf("%s:%d: malformed #+SRC_LANG, want \"language extension\"", file, ev.Line)
				continue
			}
			doc.SrcLangs = append(doc.SrcLangs, SrcLangDecl{Language: fields[0], Ext: fields[1]})

		case scanner.Begin:
			cur = newBlock(ev.Text)
			cur.Origin = Origin{File: file, Line: ev.Line}
			cur.Name = pend.name
			cur.Deps = pend.deps
			if !cur.Tangle.Requested() && pend.file != "" {
				cur.Tangle = Tangle{Path: pend.file}
			}
			pend = pending{}

		case scanner.Include:
			inc, ok := parseInclude(ev.Text)
			if !ok {
				p.log.Warnf("%s:%d: malformed #+INCLUDE, want a path", file, ev.Line)
				continue
			}
			inc.Origin = Origin{File: file, Line: ev.Line}
			if inc.Raw {
				inc.Name = pend.name
				inc.Deps = pend.deps
				pend.name = ""
				pend.nameLine = 0
				pend.hasName = false
				pend.deps = nil
			}
			doc.Nodes = append(doc.Nodes, inc)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if pend.hasName {
		if err := p.orphaned(file, pend); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (p *Parser) orphaned(file string, pend pending) error {
	err := &OrphanedNameError{File: file, Line: pend.nameLine, Name: pend.name}
	if p.strict {
		return err
	}
	p.log.Warnf("%s", err)
	return nil
}

// newBlock parses a BEGIN_SRC header: the first bare word is the language,
// two-character "-x" switches are collected, and ":key value" arguments
// follow, with :tangle and :file interpreted and the rest retained.
func newBlock(header string) *Block {
	b := &Block{}
	fields := strings.Fields(header)
	i := 0
	for i < len(fields) && !strings.HasPrefix(fields[i], ":") {
		tok := fields[i]
		i++
		if isSwitch(tok) {
			b.Switches = append(b.Switches, tok)
			continue
		}
		if b.Language == "" {
			b.Language = tok
		}
	}
	for i < len(fields) {
		key := fields[i]
		i++
		start := i
		for i < len(fields) && !strings.HasPrefix(fields[i], ":") {
			i++
		}
		value := strings.Join(fields[start:i], " ")
		switch strings.ToLower(key) {
		case ":tangle":
			b.Tangle = parseTangle(value)
		case ":file":
			if value != "" {
				b.FileName = value
			}
		default:
			b.Params = append(b.Params, Param{Key: key, Value: value})
		}
	}
	return b
}

func isSwitch(tok string) bool {
	return len(tok) == 2 && tok[0] == '-'
}

func parseTangle(value string) Tangle {
	switch strings.ToLower(value) {
	case "", "no":
		return Tangle{}
	case "yes":
		return Tangle{Derive: true}
	}
	return Tangle{Path: value}
}

// parseInclude splits an include spec into path, mode and options. The path
// may be double-quoted. A non-.org path or the "src" keyword selects a raw
// import; a bare word is the language; ":tangle" overrides the target of the
// spliced blocks.
func parseInclude(spec string) (*Include, bool) {
	fields := splitQuoted(spec)
	if len(fields) == 0 || fields[0] == "" {
		return nil, false
	}
	inc := &Include{Path: fields[0]}
	inc.Raw = !strings.HasSuffix(strings.ToLower(inc.Path), ".org")
	i := 1
	for i < len(fields) {
		tok := fields[i]
		i++
		switch {
		case strings.EqualFold(tok, "src"):
			inc.Raw = true
		case strings.ToLower(tok) == ":tangle":
			if i < len(fields) && !strings.HasPrefix(fields[i], ":") {
				inc.Tangle = parseTangle(fields[i])
				i++
			}
		case strings.HasPrefix(tok, ":"):
			// Unknown option; skip its value token.
			if i < len(fields) && !strings.HasPrefix(fields[i], ":") {
				i++
			}
		case inc.Language == "":
			inc.Language = tok
		}
	}
	return inc, true
}

// splitQuoted splits on whitespace, keeping double-quoted runs together.
// Quotes are stripped; there is no escape syntax.
func splitQuoted(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		token   bool
		inQuote bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			token = true
		case !inQuote && unicode.IsSpace(r):
			if token {
				out = append(out, cur.String())
				cur.Reset()
				token = false
			}
		default:
			cur.WriteRune(r)
			token = true
		}
	}
	if token {
		out = append(out, cur.String())
	}
	return out
}
