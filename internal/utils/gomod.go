package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ModuleInfo describes the module that encloses a directory
type ModuleInfo struct {
	Path      string // module path from the module directive
	Root      string // absolute directory holding go.mod
	GoVersion string // empty when go.mod has no go directive
}

// GoModParser locates and reads go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a new go.mod parser
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
	}
}

// FindModule walks up from startDir to the nearest go.mod and parses it
func (p *GoModParser) FindModule(startDir string) (*ModuleInfo, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return p.ParseGoMod(goModPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("go.mod file not found above %s", startDir)
		}
		dir = parent
	}
}

// ParseGoMod reads the module path and go version from a go.mod file
func (p *GoModParser) ParseGoMod(goModPath string) (*ModuleInfo, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(cleanPath, []byte(content), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil || strings.TrimSpace(modFile.Module.Mod.Path) == "" {
		return nil, fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	root, err := filepath.Abs(filepath.Dir(cleanPath))
	if err != nil {
		return nil, err
	}

	info := &ModuleInfo{Path: modFile.Module.Mod.Path, Root: root}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	return info, nil
}
