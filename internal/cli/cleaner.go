package cli

import (
	"path/filepath"
	"sort"

	"github.com/toyz/routegen/internal/errors"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	outputFile string
	scanner    *DirectoryScanner
}

// NewCleaner creates a cleaner for files named outputFile
func NewCleaner(outputFile string) *Cleaner {
	return &Cleaner{
		outputFile: outputFile,
		scanner:    NewDirectoryScanner(outputFile),
	}
}

// CleanGeneratedFiles removes generated registry files from the matched
// directories and returns their paths in order. Files of the same name that
// lack the generated header are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	var removed []string

	err := c.scanner.WalkDirectories(patterns, func(dir string) error {
		path := filepath.Join(dir, c.outputFile)
		ok, err := removeGenerated(path)
		if err != nil {
			return err
		}
		if ok {
			removed = append(removed, path)
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(errors.RouteGenError); ok {
			return removed, err
		}
		return removed, errors.Wrap(errors.FileSystemErrorCode, "failed to clean generated files", err).
			WithContext("directories", patterns)
	}

	sort.Strings(removed)
	return removed, nil
}
