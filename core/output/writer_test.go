package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "# 2024-03-01\n\n=> https://example.com/a\n"

func TestNewCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "capsule", "log")
	w, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, w.OutputDir)
	assert.DirExists(t, dir)
}

func TestWriteDayNewFile(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	res, err := w.WriteDay(doc, ".gmi")
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, filepath.Join(w.OutputDir, "2024-03-01.gmi"), res.Path)
	assert.Equal(t, len(doc), res.Bytes)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestWriteDayUnchangedIsNoop(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	res, err := w.WriteDay(doc, ".gmi")
	require.NoError(t, err)

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(res.Path, old, old))

	res, err = w.WriteDay(doc, ".gmi")
	require.NoError(t, err)
	assert.False(t, res.Written)

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "mtime changed to %s", info.ModTime())
}

func TestWriteDayChangedContentIsRewritten(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = w.WriteDay(doc, ".gmi")
	require.NoError(t, err)

	updated := doc + "\nnew post\n"
	res, err := w.WriteDay(updated, ".gmi")
	require.NoError(t, err)
	assert.True(t, res.Written)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, updated, string(got))
}

func TestWriteDayRejectsDocumentWithoutHeading(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = w.WriteDay("no heading here", ".gmi")
	require.Error(t, err)

	entries, err := os.ReadDir(w.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
