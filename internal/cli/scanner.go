package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/utils"
)

// DirectoryScanner turns directory patterns into package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner that ignores outputFile
func NewDirectoryScanner(outputFile string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(outputFile),
	}
}

// ResolvePatterns splits Go-style patterns into roots and recursion flags.
// "./..." and "dir/..." are walked; anything else names one directory.
func (s *DirectoryScanner) ResolvePatterns(patterns []string) ([]string, []bool) {
	roots := make([]string, 0, len(patterns))
	recursive := make([]bool, 0, len(patterns))

	for _, pattern := range patterns {
		base, walk := splitPattern(pattern)
		roots = append(roots, filepath.Clean(base))
		recursive = append(recursive, walk)
	}
	return roots, recursive
}

// ScanDirectories returns the sorted directories holding Go source files
// Supports Go-style patterns like "./..." for recursive scanning
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	roots, recursive := s.ResolvePatterns(patterns)
	dirs, err := s.fileProcessor.ScanPackageDirs(roots, recursive)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan directories", err).
			WithContext("directories", patterns).
			WithSuggestions(
				"Check that the specified directories exist",
				"Verify the directory paths are correct",
			)
	}
	return dirs, nil
}

// WalkDirectories visits every directory matched by the patterns, including
// directories without source files
func (s *DirectoryScanner) WalkDirectories(patterns []string, visit func(dir string) error) error {
	roots, recursive := s.ResolvePatterns(patterns)
	return s.fileProcessor.WalkDirs(roots, recursive, visit)
}

func splitPattern(pattern string) (string, bool) {
	slashed := filepath.ToSlash(pattern)
	switch {
	case slashed == "...":
		return ".", true
	case strings.HasSuffix(slashed, "/..."):
		base := strings.TrimSuffix(slashed, "/...")
		if base == "" {
			base = "/"
		}
		return filepath.FromSlash(base), true
	default:
		return pattern, false
	}
}
