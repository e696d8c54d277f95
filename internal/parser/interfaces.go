package parser

import (
	"go/ast"

	"github.com/toyz/routegen/internal/models"
)

// DirectiveScanner defines the interface for reading a package and extracting
// its route registry directives
type DirectiveScanner interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ExtractDirectives(file *ast.File, fileName string) ([]models.RegistryDirective, error)
}
