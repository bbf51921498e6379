// Package scan walks a folder tree for supported footage files.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"meldify/pkg/models"
)

var supportedExtensions = map[string]bool{
	".r3d": true,
	".mov": true,
	".mxf": true,
	".mp4": true,
	".dng": true,
	".wav": true,
}

// exportable is the subset an encoder can turn into a video deliverable.
var exportable = map[string]bool{
	".r3d": true,
	".mov": true,
	".mxf": true,
	".mp4": true,
}

// IsSupported reports whether path has an accepted extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsExportable reports whether path may be handed to the encoder.
func IsExportable(path string) bool {
	return exportable[strings.ToLower(filepath.Ext(path))]
}

// Folder walks root depth-first and returns supported files in lexical
// order. Unreadable entries are skipped; an unreadable root is an error.
func Folder(root string) ([]*models.FileEntry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var entries []*models.FileEntry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSupported(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		entries = append(entries, models.NewFileEntry(path, info.Size()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Paths filters a dropped path list down to supported files. Directories
// are expanded with Folder.
func Paths(paths []string) ([]*models.FileEntry, error) {
	var entries []*models.FileEntry
	for _, p := range paths {
		found, err := Folder(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}
