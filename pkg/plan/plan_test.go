package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/importfix/pkg/types"
)

const source = "import a from './a';\n"

func writeSource(t *testing.T) (string, types.FileReport) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.ts")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))

	return path, types.FileReport{
		Path: path,
		Hash: Hash([]byte(source)),
		Changes: []types.Change{
			{LineNumber: 1, Start: 15, End: 18, From: "./a", To: "./lib/a", Target: "/x/lib/a.ts"},
		},
	}
}

func TestNew_KeepsOnlyChangedFiles(t *testing.T) {
	p := New([]types.FileReport{
		{Path: "/a.ts"},
		{Path: "/b.ts", Changes: []types.Change{{From: "./x", To: "./y"}, {From: "./p", To: "./q"}}},
	})

	require.Len(t, p.Files, 1)
	assert.Equal(t, "/b.ts", p.Files[0].Path)
	assert.Equal(t, 2, p.ChangeCount())
	assert.Equal(t, Version, p.Version)
}

func TestEncodeDecode(t *testing.T) {
	_, report := writeSource(t)
	p := New([]types.FileReport{report})

	for _, format := range []Format{FormatMsgpack, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, p.Encode(&buf, format))

			decoded, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, p.Files, decoded.Files)
			assert.True(t, p.CreatedAt.Equal(decoded.CreatedAt))
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("not json"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(bytes.NewBufferString(`{"version": 99}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(bytes.NewBufferString(`{}`), "xml")
	assert.Error(t, err)

	assert.Error(t, New(nil).Encode(&bytes.Buffer{}, "xml"))
}

func TestSaveAndLoadFile(t *testing.T) {
	_, report := writeSource(t)
	p := New([]types.FileReport{report})
	dir := t.TempDir()

	for _, name := range []string{"plan.msgpack", "plan.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, p.SaveFile(path, FormatForPath(path)))

		loaded, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.ChangeCount())
	}

	_, err := LoadFile(filepath.Join(dir, "missing.msgpack"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	path, report := writeSource(t)
	p := New([]types.FileReport{report})

	results := p.Apply(true)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	content, _ := os.ReadFile(path)
	assert.Equal(t, source, string(content), "dry run must not write")

	results = p.Apply(false)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Changes)
	content, _ = os.ReadFile(path)
	assert.Equal(t, "import a from './lib/a';\n", string(content))

	// The file no longer matches the recorded hash.
	results = p.Apply(false)
	assert.ErrorIs(t, results[0].Err, ErrStale)
}

func TestApply_MissingFile(t *testing.T) {
	p := New([]types.FileReport{{
		Path:    filepath.Join(t.TempDir(), "gone.ts"),
		Changes: []types.Change{{From: "./a", To: "./b"}},
	}})

	results := p.Apply(false)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("plan.json"))
	assert.Equal(t, FormatMsgpack, FormatForPath("plan.msgpack"))
	assert.Equal(t, FormatMsgpack, FormatForPath("plan"))
}

func TestPreview(t *testing.T) {
	path, report := writeSource(t)
	p := New([]types.FileReport{report})
	assert.NotEmpty(t, p.ID)

	diffs := p.Preview()
	require.Len(t, diffs, 1)
	require.NoError(t, diffs[0].Err)
	assert.Equal(t, path, diffs[0].Path)
	assert.Equal(t, []DiffLine{
		{Line: 1, Removed: true, Text: "import a from './a';"},
		{Line: 1, Text: "import a from './lib/a';"},
	}, diffs[0].Lines)

	content, _ := os.ReadFile(path)
	assert.Equal(t, source, string(content), "preview must not write")

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0644))
	diffs = p.Preview()
	assert.ErrorIs(t, diffs[0].Err, ErrStale)
}
