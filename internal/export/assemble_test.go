package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igor37/exorg/internal/lang"
	"github.com/igor37/exorg/internal/parser"
	"github.com/igor37/exorg/internal/resolve"
)

func TestAssembleExplicitOutput(t *testing.T) {
	r := testRouter(mkBlock("main", "python", "x=1"))
	groups, err := r.ByName("main")
	require.NoError(t, err)

	files, err := r.Assemble(groups, "custom.py")
	require.NoError(t, err)
	assert.Equal(t, []File{{Name: "custom.py", Content: "x=1"}}, files)
}

func TestAssembleExplicitOutputConflict(t *testing.T) {
	r := testRouter(
		mkTangled("", "python", "a", "a.py"),
		mkTangled("", "python", "b", "b.py"),
	)
	groups, err := r.AllTangled()
	require.NoError(t, err)
	require.Len(t, groups, 2)

	_, err = r.Assemble(groups, "single.py")
	var oc *OutputConflictError
	require.ErrorAs(t, err, &oc)
	assert.Equal(t, "single.py", oc.Output)
	assert.Equal(t, []string{"a.py", "b.py"}, oc.Targets)
}

func TestAssembleTangleTarget(t *testing.T) {
	r := testRouter(
		mkTangled("", "python", "x=1", "foo.py"),
		mkTangled("", "python", "y=2", "foo.py"),
	)
	groups, err := r.AllTangled()
	require.NoError(t, err)

	files, err := r.Assemble(groups, "")
	require.NoError(t, err)
	assert.Equal(t, []File{{Name: "foo.py", Content: "x=1\n\ny=2"}}, files)
}

func TestAssembleFileOverride(t *testing.T) {
	b := mkBlock("main", "python", "x=1")
	b.FileName = "named.py"
	r := testRouter(b)
	groups, err := r.ByName("main")
	require.NoError(t, err)

	files, err := r.Assemble(groups, "")
	require.NoError(t, err)
	assert.Equal(t, "named.py", files[0].Name)
}

func TestAssembleTangleTargetBeatsFileOverride(t *testing.T) {
	b := mkTangled("main", "python", "x=1", "target.py")
	b.FileName = "named.py"
	r := testRouter(b)
	groups, err := r.ByName("main")
	require.NoError(t, err)

	files, err := r.Assemble(groups, "")
	require.NoError(t, err)
	assert.Equal(t, "target.py", files[0].Name)
}

func TestAssembleSynthesized(t *testing.T) {
	r := testRouter(
		mkBlock("", "python", "a"),
		mkBlock("", "python", "b"),
	)
	groups, err := r.ByLanguage("python")
	require.NoError(t, err)

	files, err := r.Assemble(groups, "")
	require.NoError(t, err)
	assert.Equal(t, []File{{Name: "doc.py", Content: "a\n\nb"}}, files)
}

func TestAssembleSynthesizedFromRegistration(t *testing.T) {
	langs := lang.NewTable()
	langs.Register("crystal", "cr")
	r := NewRouter(&resolve.Result{
		File:   "notes.org",
		Blocks: []*parser.Block{mkBlock("", "crystal", "puts 1")},
		Langs:  langs,
	})
	groups, err := r.ByLanguage("crystal")
	require.NoError(t, err)

	files, err := r.Assemble(groups, "")
	require.NoError(t, err)
	assert.Equal(t, "notes.cr", files[0].Name)
}

func TestAssembleUnknownLanguage(t *testing.T) {
	r := testRouter(mkBlock("", "klingon", "nuqneH"))
	groups, err := r.ByLanguage("klingon")
	require.NoError(t, err)

	_, err = r.Assemble(groups, "")
	var ie *InferenceError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "klingon", ie.Language)
}

func TestAssembleNoLanguage(t *testing.T) {
	r := testRouter(mkBlock("main", "", "data"))
	groups, err := r.ByName("main")
	require.NoError(t, err)

	_, err = r.Assemble(groups, "")
	var ie *InferenceError
	require.ErrorAs(t, err, &ie)
	assert.Empty(t, ie.Language)
}

func TestAssembleExplicitOutputWinsOverTarget(t *testing.T) {
	r := testRouter(mkTangled("", "python", "x", "orig.py"))
	groups, err := r.AllTangled()
	require.NoError(t, err)

	files, err := r.Assemble(groups, "elsewhere.py")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.py", files[0].Name)
}
