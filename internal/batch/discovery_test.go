package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestDiscoverReportFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, err := discoverReportFiles([]string{dir}, false, []string{"*.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverReportFiles_NonRecursiveSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "sub", "b.pdf"))

	files, err := discoverReportFiles([]string{dir}, false, []string{"*.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = discoverReportFiles([]string{dir}, true, []string{"*.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverReportFiles_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	touch(t, path)

	files, err := discoverReportFiles([]string{path}, false, []string{"*.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverReportFiles_ExcludeWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "report.pdf"))
	touch(t, filepath.Join(dir, "draft_report.pdf"))

	files, err := discoverReportFiles([]string{dir}, false, []string{"*.pdf"}, []string{"draft_*"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", filepath.Base(files[0]))
}

func TestShouldIncludeFile_NoIncludePatterns(t *testing.T) {
	assert.True(t, shouldIncludeFile("/x/a.pdf", nil, nil))
	assert.False(t, shouldIncludeFile("/x/a.pdf", nil, []string{"*.pdf"}))
}
