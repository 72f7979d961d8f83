package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"
)

type SourceFile struct {
	Path string
	// Rel is relative to the source root, slash separated.
	Rel string
}

// DiscoverSource walks root in lexical order; that order is the content-scan order.
func DiscoverSource(root string) ([]SourceFile, error) {
	var out []SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, SourceFile{Path: path, Rel: filepath.ToSlash(rel)})
		}
		return nil
	})
	return out, err
}
