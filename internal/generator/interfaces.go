package generator

import "github.com/toyz/routegen/internal/models"

// CodeGenerator defines the interface for generating registry files from scanned packages
type CodeGenerator interface {
	GenerateRegistry(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
	Options() Options
}
