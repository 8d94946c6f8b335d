// Package ui renders the block listing. Display only; nothing here reads
// input.
package ui

import (
	"fmt"
	"strings"

	"github.com/igor37/exorg/internal/parser"
)

const columnGap = 2

type row struct {
	name     string
	language string
	target   string
	deps     string
	origin   string
}

// RenderBlocks formats an expanded block sequence as an aligned table:
// name, language, tangle target, dependencies and origin per block.
func RenderBlocks(blocks []*parser.Block) string {
	rows := make([]row, len(blocks))
	for i, b := range blocks {
		rows[i] = row{
			name:     orDash(b.Name),
			language: orDash(b.Language),
			target:   orDash(targetLabel(b.Tangle)),
			deps:     orDash(strings.Join(b.Deps, ",")),
			origin:   b.Origin.String(),
		}
	}

	header := row{name: "NAME", language: "LANG", target: "TARGET", deps: "DEPS", origin: "ORIGIN"}
	widths := columnWidths(header, rows)

	var out strings.Builder
	out.WriteString(renderRow(header, widths, true))
	out.WriteByte('\n')
	for _, r := range rows {
		out.WriteString(renderRow(r, widths, false))
		out.WriteByte('\n')
	}
	out.WriteString(styles.Dim.Render(fmt.Sprintf("%d block(s)", len(blocks))))
	return out.String()
}

func targetLabel(t parser.Tangle) string {
	if t.Derive {
		return "yes"
	}
	return t.Path
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func columnWidths(header row, rows []row) [4]int {
	w := [4]int{len(header.name), len(header.language), len(header.target), len(header.deps)}
	for _, r := range rows {
		w[0] = max(w[0], len(r.name))
		w[1] = max(w[1], len(r.language))
		w[2] = max(w[2], len(r.target))
		w[3] = max(w[3], len(r.deps))
	}
	return w
}

// renderRow pads the plain cells first, then applies styles; padding styled
// text would count the escape sequences.
func renderRow(r row, w [4]int, header bool) string {
	gap := strings.Repeat(" ", columnGap)
	cells := []string{
		pad(r.name, w[0]),
		pad(r.language, w[1]),
		pad(r.target, w[2]),
		pad(r.deps, w[3]),
		r.origin,
	}
	if header {
		for i, c := range cells {
			cells[i] = styles.Header.Render(c)
		}
		return strings.Join(cells, gap)
	}
	cells[0] = styles.Name.Render(cells[0])
	cells[1] = styles.Language.Render(cells[1])
	cells[2] = styles.Target.Render(cells[2])
	cells[3] = styles.Deps.Render(cells[3])
	cells[4] = styles.Origin.Render(cells[4])
	return strings.Join(cells, gap)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
