// Package writer puts assembled files on disk.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/igor37/exorg/internal/export"
)

// Writer writes (filename, content) pairs under an output directory,
// creating intermediate directories for nested targets. Assembled content
// carries no trailing newline; the writer appends one.
type Writer struct {
	log    *zap.SugaredLogger
	outDir string
	dryRun bool
}

// New returns a writer rooted at outDir ("." when empty).
func New(outDir string) *Writer {
	if outDir == "" {
		outDir = "."
	}
	return &Writer{log: zap.NewNop().Sugar(), outDir: outDir}
}

// WithLogger sets the logger used to report written files.
func (w *Writer) WithLogger(log *zap.SugaredLogger) *Writer {
	if log != nil {
		w.log = log
	}
	return w
}

// WithDryRun makes Write report what it would do without touching disk.
func (w *Writer) WithDryRun(dry bool) *Writer {
	w.dryRun = dry
	return w
}

// Write places every file under the output directory and returns the paths
// it wrote (or would write, in dry-run mode). Targets must stay inside the
// output directory: absolute paths and parent escapes are rejected.
func (w *Writer) Write(files []export.File) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		dest, err := w.destination(f.Name)
		if err != nil {
			return paths, err
		}
		if w.dryRun {
			w.log.Infof("would write %s (%d bytes)", dest, len(f.Content)+1)
			paths = append(paths, dest)
			continue
		}
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(dest, []byte(f.Content+"\n"), 0o664); err != nil {
			return paths, fmt.Errorf("write %s: %w", dest, err)
		}
		w.log.Infof("wrote %s (%d bytes)", dest, len(f.Content)+1)
		paths = append(paths, dest)
	}
	return paths, nil
}

func (w *Writer) destination(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty output filename")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("output %q: absolute targets are not allowed", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output %q: target escapes the output directory", name)
	}
	return filepath.Join(w.outDir, clean), nil
}
