package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/routegen/internal/generator"
	"github.com/toyz/routegen/internal/utils"
)

// runtimePackageDir is where a module may vendor its own copy of the runtime package
const runtimePackageDir = "pkg/axon"

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	workDir     string
	goModParser *utils.GoModParser
}

// NewModuleResolver creates a module resolver rooted at the working directory
func NewModuleResolver(fileReader *utils.FileReader) *ModuleResolver {
	return NewModuleResolverAt(".", fileReader)
}

// NewModuleResolverAt creates a module resolver that searches upward from dir
func NewModuleResolverAt(dir string, fileReader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		workDir:     dir,
		goModParser: utils.NewGoModParser(fileReader),
	}
}

// ResolveModuleName resolves the module name for imports
// If customModule is provided, it uses that; otherwise reads from go.mod
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	module, err := r.goModParser.FindModule(r.workDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}
	return module.Path, nil
}

// ModuleRoot returns the directory holding the nearest go.mod
func (r *ModuleResolver) ModuleRoot() (string, error) {
	module, err := r.goModParser.FindModule(r.workDir)
	if err != nil {
		return "", err
	}
	return module.Root, nil
}

// ResolveRuntimeImport picks the import path of the RouteHandler package.
// A configured path wins, then a pkg/axon package inside the module, then
// the default runtime package.
func (r *ModuleResolver) ResolveRuntimeImport(configured, moduleName string) string {
	if configured != "" {
		return configured
	}
	if moduleName == "" {
		return generator.DefaultRuntimeImport
	}
	if root, err := r.ModuleRoot(); err == nil {
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(runtimePackageDir))); err == nil && info.IsDir() {
			return moduleName + "/" + runtimePackageDir
		}
	}
	return generator.DefaultRuntimeImport
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	root, err := r.ModuleRoot()
	if err != nil {
		return "", fmt.Errorf("failed to locate module root: %w", err)
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}
	if importPath == ".." || strings.HasPrefix(importPath, "../") {
		return "", fmt.Errorf("package directory %s is outside module root %s", packageDir, root)
	}

	return fmt.Sprintf("%s/%s", moduleName, importPath), nil
}
