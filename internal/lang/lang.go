// Package lang maps source-language names to file extensions.
package lang

import (
	"sort"
	"strings"
)

// extensions is the static language-to-extension table. It is never mutated
// after initialization; per-document and per-config additions layer on top
// through Table. Aliases (bash/sh/shell, cpp/c++, ...) share an entry each.
var extensions = map[string]string{
	"awk":        ".awk",
	"bash":       ".sh",
	"sh":         ".sh",
	"shell":      ".sh",
	"c":          ".c",
	"cpp":        ".cpp",
	"c++":        ".cpp",
	"csharp":     ".cs",
	"c#":         ".cs",
	"cs":         ".cs",
	"css":        ".css",
	"d":          ".d",
	"emacs-lisp": ".el",
	"go":         ".go",
	"html":       ".html",
	"java":       ".java",
	"javascript": ".js",
	"js":         ".js",
	"json":       ".json",
	"julia":      ".jl",
	"jupyter":    ".ipynb",
	"latex":      ".tex",
	"lua":        ".lua",
	"markdown":   ".md",
	"ocaml":      ".ml",
	"perl":       ".pl",
	"php":        ".php",
	"prolog":     ".pl",
	"python":     ".py",
	"r":          ".r",
	"ruby":       ".rb",
	"rust":       ".rs",
	"sql":        ".sql",
	"toml":       ".toml",
	"yaml":       ".yml",
}

// Table resolves language names to file extensions. The zero value is not
// usable; create one with NewTable.
type Table struct {
	extra map[string]string
}

// NewTable returns a table backed by the static extension map.
func NewTable() *Table {
	return &Table{extra: make(map[string]string)}
}

// Register maps a language to an extension, as declared by a document's
// #+SRC_LANG: directive or by configuration. The static table always wins;
// registrations only resolve languages it does not know. A missing leading
// dot is added, so both "rs" and ".rs" are accepted.
func (t *Table) Register(language, ext string) {
	language = strings.ToLower(strings.TrimSpace(language))
	ext = strings.TrimSpace(ext)
	if language == "" || ext == "" {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	t.extra[language] = ext
}

// Lookup returns the extension for a language, consulting the static table
// first and registrations second. The boolean reports whether the language
// is known at all; an empty language is always unknown.
func (t *Table) Lookup(language string) (string, bool) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "", false
	}
	if ext, ok := extensions[language]; ok {
		return ext, true
	}
	ext, ok := t.extra[language]
	return ext, ok
}

// Known returns the sorted names of the static table, for enumeration in
// tests and help output. Registrations are not included.
func Known() []string {
	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
