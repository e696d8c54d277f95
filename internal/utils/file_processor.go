package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// SourceFileFilter accepts non-test .go files other than the generated output file
func SourceFileFilter(outputFile string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != outputFile
	}
}

// DefaultDirectoryFilter skips directories that shouldn't contain source code.
// Like the go tool, it also skips directories starting with "." or "_".
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// FileProcessor walks directory trees looking for Go packages
type FileProcessor struct {
	fileFilter      FileFilter
	directoryFilter DirectoryFilter
}

// NewFileProcessor creates a processor that treats outputFile as generated
func NewFileProcessor(outputFile string) *FileProcessor {
	return &FileProcessor{
		fileFilter:      SourceFileFilter(outputFile),
		directoryFilter: DefaultDirectoryFilter(),
	}
}

// ScanPackageDirs returns every directory under the roots that holds Go
// source files. Roots marked recursive are walked; the others are checked
// on their own. The result is sorted and free of duplicates.
func (fp *FileProcessor) ScanPackageDirs(roots []string, recursive []bool) ([]string, error) {
	var dirs []string
	err := fp.WalkDirs(roots, recursive, func(dir string) error {
		ok, err := fp.HasGoFiles(dir)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, dir)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(dirs)
	return dirs, nil
}

// WalkDirs calls visit once for every directory reachable from the roots,
// whether or not it holds source files. Directories rejected by the
// directory filter are skipped along with their children, and so are nested
// modules below a root.
func (fp *FileProcessor) WalkDirs(roots []string, recursive []bool, visit func(dir string) error) error {
	seen := make(map[string]bool)
	once := func(dir string) error {
		if seen[dir] {
			return nil
		}
		seen[dir] = true
		return visit(dir)
	}

	for i, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("failed to scan %s: not a directory", root)
		}

		if i >= len(recursive) || !recursive[i] {
			if err := once(root); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() {
				return nil
			}
			if path != root && (!fp.directoryFilter(path, entry) || isModuleRoot(path)) {
				return filepath.SkipDir
			}
			return once(path)
		})
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	return nil
}

func isModuleRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil && !info.IsDir()
}

// HasGoFiles checks if a directory contains any source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	files, err := fp.SourceFiles(dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// SourceFiles lists the source files in dir, sorted by name
func (fp *FileProcessor) SourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if fp.fileFilter(path, entry) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}
