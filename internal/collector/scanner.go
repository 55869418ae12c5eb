package collector

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// SupportedExtensions are the file types collected from a repository.
var SupportedExtensions = []string{".md", ".txt", ".pdf", ".docx", ".html"}

// ScannedFile represents a candidate document found in a working tree.
type ScannedFile struct {
	RelPath  string // Slash-separated path from the repository root
	AbsPath  string
	FileType string // Extension without the dot
}

// ScanDir walks root and returns every file with a supported extension.
// Version control metadata is skipped.
func ScanDir(ctx context.Context, root string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if !isSupported(ext) {
			return nil
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", p, err)
		}

		files = append(files, ScannedFile{
			RelPath:  filepath.ToSlash(relPath),
			AbsPath:  p,
			FileType: strings.TrimPrefix(ext, "."),
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}

func isSupported(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
