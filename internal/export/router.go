// Package export selects blocks from an expanded document, groups them by
// output target and assembles the final (filename, content) pairs.
package export

import (
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/igor37/exorg/internal/lang"
	"github.com/igor37/exorg/internal/parser"
	"github.com/igor37/exorg/internal/resolve"
)

const maxSuggestions = 3

// Group is an ordered run of blocks destined for one output file. Target is
// the resolved tangle target shared by the members, empty when the group is
// not target-bound (by-language selections and untargeted blocks).
type Group struct {
	Target string
	Blocks []*parser.Block
}

// Language returns the language of the group's first block.
func (g *Group) Language() string {
	if len(g.Blocks) == 0 {
		return ""
	}
	return g.Blocks[0].Language
}

// Content joins the group's fragments with a single blank line, in group
// order. There is no trailing newline; writers append their own.
func (g *Group) Content() string {
	parts := make([]string, len(g.Blocks))
	for i, b := range g.Blocks {
		parts[i] = b.Content()
	}
	return strings.Join(parts, "\n\n")
}

// Router selects and groups blocks from one resolved document.
type Router struct {
	log    *zap.SugaredLogger
	blocks []*parser.Block
	langs  *lang.Table
	doc    string
}

// NewRouter returns a router over a resolver result.
func NewRouter(res *resolve.Result) *Router {
	return &Router{
		log:    zap.NewNop().Sugar(),
		blocks: res.Blocks,
		langs:  res.Langs,
		doc:    res.File,
	}
}

// WithLogger sets the logger for selection tracing.
func (r *Router) WithLogger(log *zap.SugaredLogger) *Router {
	if log != nil {
		r.log = log
	}
	return r
}

// ByName selects every block named name exactly. When nothing matches, the
// name is retried as a prefix over the document's distinct block names: a
// unique candidate selects all its blocks, several candidates are an
// AmbiguousError, none is a NoMatchError with close-name suggestions.
// Declared dependencies join the selection transitively, dependencies first.
func (r *Router) ByName(name string) ([]*Group, error) {
	selected := r.named(name)
	if len(selected) == 0 {
		candidates := r.prefixed(name)
		switch len(candidates) {
		case 0:
			return nil, &NoMatchError{Query: name, Suggestions: suggest(name, r.names())}
		case 1:
			r.log.Debugf("resolved block name %q to %q", name, candidates[0])
			selected = r.named(candidates[0])
		default:
			return nil, &AmbiguousError{Name: name, Candidates: candidates}
		}
	}
	ordered, err := r.withDependencies(selected)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("selected %d block(s) for name %q", len(ordered), name)
	return r.group(ordered)
}

// ByLanguage selects every block with the given language, document order,
// merged into a single group regardless of tangle targets.
func (r *Router) ByLanguage(language string) ([]*Group, error) {
	var selected []*parser.Block
	for _, b := range r.blocks {
		if strings.EqualFold(b.Language, language) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return nil, &NoMatchError{Query: language, Suggestions: suggest(language, r.languages())}
	}
	r.log.Debugf("selected %d block(s) for language %q", len(selected), language)
	return []*Group{{Blocks: selected}}, nil
}

// AllTangled selects every block with a resolved tangle target, grouped by
// target. Untargeted blocks are excluded. A document with nothing to tangle
// yields no groups and no error.
func (r *Router) AllTangled() ([]*Group, error) {
	var selected []*parser.Block
	for _, b := range r.blocks {
		if b.Tangle.Requested() {
			selected = append(selected, b)
		}
	}
	r.log.Debugf("selected %d tangled block(s)", len(selected))
	return r.group(selected)
}

// group merges blocks sharing a resolved target into one group each, in
// first-occurrence order.
func (r *Router) group(blocks []*parser.Block) ([]*Group, error) {
	var groups []*Group
	index := make(map[string]*Group)
	for _, b := range blocks {
		target, err := r.target(b)
		if err != nil {
			return nil, err
		}
		g, ok := index[target]
		if !ok {
			g = &Group{Target: target}
			index[target] = g
			groups = append(groups, g)
		}
		g.Blocks = append(g.Blocks, b)
	}
	return groups, nil
}

// target resolves a block's tangle request. ":tangle yes" derives the
// target from the document stem and the block's language.
func (r *Router) target(b *parser.Block) (string, error) {
	if b.Tangle.Path != "" {
		return b.Tangle.Path, nil
	}
	if !b.Tangle.Derive {
		return "", nil
	}
	ext, ok := r.langs.Lookup(b.Language)
	if !ok {
		return "", &InferenceError{Language: b.Language}
	}
	return r.stem() + ext, nil
}

// stem is the root document's base name without its extension.
func (r *Router) stem() string {
	base := filepath.Base(r.doc)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (r *Router) named(name string) []*parser.Block {
	var blocks []*parser.Block
	for _, b := range r.blocks {
		if b.Name == name {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// prefixed returns the distinct block names starting with prefix, in
// first-occurrence order.
func (r *Router) prefixed(prefix string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, b := range r.blocks {
		if b.Name == "" || seen[b.Name] || !strings.HasPrefix(b.Name, prefix) {
			continue
		}
		seen[b.Name] = true
		names = append(names, b.Name)
	}
	return names
}

func (r *Router) names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, b := range r.blocks {
		if b.Name != "" && !seen[b.Name] {
			seen[b.Name] = true
			names = append(names, b.Name)
		}
	}
	return names
}

func (r *Router) languages() []string {
	var langs []string
	seen := make(map[string]bool)
	for _, b := range r.blocks {
		if b.Language != "" && !seen[b.Language] {
			seen[b.Language] = true
			langs = append(langs, b.Language)
		}
	}
	return langs
}

// suggest ranks universe against query and keeps the closest few.
func suggest(query string, universe []string) []string {
	matches := fuzzy.Find(query, universe)
	n := len(matches)
	if n > maxSuggestions {
		n = maxSuggestions
	}
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// withDependencies expands the selection with the transitive #+DEPS closure
// and orders it dependencies-first. Blocks without any declared dependencies
// pass through in document order.
func (r *Router) withDependencies(selected []*parser.Block) ([]*parser.Block, error) {
	include := make(map[*parser.Block]bool, len(selected))
	queue := make([]string, 0)
	hasDeps := false
	for _, b := range selected {
		include[b] = true
		if len(b.Deps) > 0 {
			hasDeps = true
			queue = append(queue, b.Deps...)
		}
	}
	if !hasDeps {
		return selected, nil
	}

	// Transitive closure by name.
	var missing []string
	requested := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if requested[name] {
			continue
		}
		requested[name] = true
		deps := r.named(name)
		if len(deps) == 0 {
			missing = append(missing, name)
			continue
		}
		for _, b := range deps {
			if !include[b] {
				include[b] = true
				queue = append(queue, b.Deps...)
			}
		}
	}
	if len(missing) > 0 {
		return nil, &DependencyError{Missing: missing}
	}

	// Universe in document order.
	var universe []*parser.Block
	total := make(map[string]int)
	for _, b := range r.blocks {
		if include[b] {
			universe = append(universe, b)
			if b.Name != "" {
				total[b.Name]++
			}
		}
	}

	// Fixed point: each round emits, in document order, every block whose
	// dependencies are fully placed. A round without progress is a cycle.
	placed := make(map[*parser.Block]bool, len(universe))
	done := make(map[string]int)
	satisfied := func(name string) bool {
		return total[name] > 0 && done[name] == total[name]
	}
	var ordered []*parser.Block
	for len(ordered) < len(universe) {
		progress := false
		for _, b := range universe {
			if placed[b] {
				continue
			}
			ready := true
			for _, d := range b.Deps {
				if !satisfied(d) {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			placed[b] = true
			if b.Name != "" {
				done[b.Name]++
			}
			ordered = append(ordered, b)
			progress = true
		}
		if !progress {
			var stuck []string
			seen := make(map[string]bool)
			for _, b := range universe {
				if !placed[b] && b.Name != "" && !seen[b.Name] {
					seen[b.Name] = true
					stuck = append(stuck, b.Name)
				}
			}
			return nil, &DependencyError{Stuck: stuck}
		}
	}
	return ordered, nil
}
