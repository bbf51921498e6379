package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestFolder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "A001.RDC", "A001_C001.R3D"), 10)
	touch(t, filepath.Join(root, "A001.RDC", "A001_C001.rmd"), 1)
	touch(t, filepath.Join(root, "sony", "clip.MXF"), 20)
	touch(t, filepath.Join(root, "audio", "boom.wav"), 5)
	touch(t, filepath.Join(root, "notes.txt"), 1)
	touch(t, filepath.Join(root, "z.mp4"), 3)

	entries, err := Folder(root)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.DisplayName)
		assert.True(t, filepath.IsAbs(e.AbsolutePath))
	}
	assert.Equal(t, []string{"A001_C001.R3D", "boom.wav", "clip.MXF", "z.mp4"}, names)
	assert.Equal(t, int64(10), entries[0].SizeBytes)
}

func TestFolder_MissingRoot(t *testing.T) {
	_, err := Folder(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestPaths_MixesFilesAndFolders(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "single.mov")
	touch(t, file, 1)
	touch(t, filepath.Join(root, "dir", "a.mp4"), 1)
	touch(t, filepath.Join(root, "skip.txt"), 1)

	entries, err := Paths([]string{file, filepath.Join(root, "dir"), filepath.Join(root, "skip.txt")})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "single.mov", entries[0].DisplayName)
	assert.Equal(t, "a.mp4", entries[1].DisplayName)
}

func TestIsSupportedAndExportable(t *testing.T) {
	tests := []struct {
		path       string
		supported  bool
		exportable bool
	}{
		{"a.R3D", true, true},
		{"a.mov", true, true},
		{"a.MXF", true, true},
		{"a.mp4", true, true},
		{"a.dng", true, false},
		{"a.wav", true, false},
		{"a.mkv", false, false},
		{"noext", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.supported, IsSupported(tt.path), tt.path)
		assert.Equal(t, tt.exportable, IsExportable(tt.path), tt.path)
	}
}
