// Package notebook serializes blocks into a Jupyter notebook (nbformat 4).
// Only code cells are produced; prose never reaches this layer.
package notebook

import (
	"encoding/json"

	"github.com/igor37/exorg/internal/parser"
)

// Notebook is an nbformat 4 document.
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Cell is a single code cell. ExecutionCount stays null; this tool never
// executes anything.
type Cell struct {
	CellType       string         `json:"cell_type"`
	ExecutionCount *int           `json:"execution_count"`
	Metadata       map[string]any `json:"metadata"`
	Outputs        []any          `json:"outputs"`
	Source         []string       `json:"source"`
}

// Metadata carries the kernel and language description.
type Metadata struct {
	Kernelspec   Kernelspec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

type Kernelspec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

type LanguageInfo struct {
	CodemirrorMode    CodemirrorMode `json:"codemirror_mode"`
	FileExtension     string         `json:"file_extension"`
	Mimetype          string         `json:"mimetype"`
	Name              string         `json:"name"`
	NbconvertExporter string         `json:"nbconvert_exporter"`
	PygmentsLexer     string         `json:"pygments_lexer"`
	Version           string         `json:"version"`
}

type CodemirrorMode struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// python3Metadata matches what Jupyter itself writes for a Python 3 kernel.
var python3Metadata = Metadata{
	Kernelspec: Kernelspec{
		DisplayName: "Python 3",
		Language:    "python",
		Name:        "python3",
	},
	LanguageInfo: LanguageInfo{
		CodemirrorMode:    CodemirrorMode{Name: "ipython", Version: 3},
		FileExtension:     ".py",
		Mimetype:          "text/x-python",
		Name:              "python",
		NbconvertExporter: "python",
		PygmentsLexer:     "ipython3",
		Version:           "3.6.4",
	},
}

// New builds a Python 3 notebook with one code cell per block.
func New(blocks []*parser.Block) *Notebook {
	cells := make([]Cell, 0, len(blocks))
	for _, b := range blocks {
		cells = append(cells, Cell{
			CellType: "code",
			Metadata: map[string]any{},
			Outputs:  []any{},
			Source:   cellSource(b.Lines),
		})
	}
	return &Notebook{
		Cells:         cells,
		Metadata:      python3Metadata,
		NBFormat:      4,
		NBFormatMinor: 2,
	}
}

// cellSource converts content lines to notebook form: every line keeps its
// newline except the last.
func cellSource(lines []string) []string {
	source := make([]string, len(lines))
	for i, line := range lines {
		if i < len(lines)-1 {
			line += "\n"
		}
		source[i] = line
	}
	return source
}

// JSON renders the notebook the way Jupyter does, one-space indented.
func (n *Notebook) JSON() ([]byte, error) {
	return json.MarshalIndent(n, "", " ")
}
