package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igor37/exorg/internal/export"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	paths, err := New(dir).Write([]export.File{
		{Name: "out.py", Content: "x = 1\n\ny = 2"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "out.py")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n\ny = 2\n", string(data))
}

func TestWriteNestedTarget(t *testing.T) {
	dir := t.TempDir()
	paths, err := New(dir).Write([]export.File{
		{Name: "src/lib/core.rs", Content: "fn main() {}"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "src", "lib", "core.rs"))
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(data))
	assert.Equal(t, []string{filepath.Join(dir, "src", "lib", "core.rs")}, paths)
}

func TestWriteRejectsAbsolute(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir).Write([]export.File{
		{Name: filepath.Join(dir, "..", "abs.py"), Content: "x"},
	})
	require.Error(t, err)
}

func TestWriteRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"../escape.py", "a/../../escape.py", ".."} {
		_, err := New(dir).Write([]export.File{{Name: name, Content: "x"}})
		assert.Error(t, err, "target %q", name)
	}
}

func TestWriteDryRun(t *testing.T) {
	dir := t.TempDir()
	paths, err := New(dir).WithDryRun(true).Write([]export.File{
		{Name: "out.py", Content: "x"},
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	_, statErr := os.Stat(paths[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteEmptyName(t *testing.T) {
	_, err := New(t.TempDir()).Write([]export.File{{Name: "", Content: "x"}})
	require.Error(t, err)
}
