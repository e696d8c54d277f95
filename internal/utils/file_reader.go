package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader parses and reads files, caching results until the file changes
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *FileCache[*ast.File]
	contentCache *FileCache[string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewFileCache[*ast.File](),
		contentCache: NewFileCache[string](),
	}
}

// ParseGoFile parses a Go source file, keeping comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath := filepath.Clean(filePath)
	return fr.astCache.Load(cleanPath, func() (*ast.File, error) {
		file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(cleanPath), err)
		}
		return file, nil
	})
}

// ReadFile reads a file and returns its contents as a string
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	return fr.contentCache.Load(cleanPath, func() (string, error) {
		content, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
		}
		return string(content), nil
	})
}

// FileSet returns the token.FileSet used for every parsed file
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// CacheStats returns the number of cached ASTs and file contents
func (fr *FileReader) CacheStats() (astFiles, contentFiles int) {
	return fr.astCache.Size(), fr.contentCache.Size()
}

// ClearCache drops every cached entry
func (fr *FileReader) ClearCache() {
	fr.astCache.Clear()
	fr.contentCache.Clear()
}
