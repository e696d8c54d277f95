package generator

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/resolver"
	"github.com/toyz/routegen/internal/templates"
	"github.com/toyz/routegen/internal/utils"
)

const (
	// DefaultOutputFile is the name of the generated file in each package
	DefaultOutputFile = "autogen_routes.go"

	// DefaultRuntimeImport provides the handler interface the collection is typed with
	DefaultRuntimeImport = "github.com/toyz/routegen/pkg/axon"
)

// Options controls how registry files are generated
type Options struct {
	OutputFile       string // generated file name inside the package directory
	RuntimeImport    string // import path of the package declaring RouteHandler
	DefaultFunc      string // function name for directives without -Name
	ContractChecks   bool   // require a companion module declaration per route
	RejectDuplicates bool   // fail on repeated route names within a directive
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		OutputFile:       DefaultOutputFile,
		RuntimeImport:    DefaultRuntimeImport,
		DefaultFunc:      models.DefaultRegistryFunc,
		ContractChecks:   true,
		RejectDuplicates: true,
	}
}

// Generator implements the CodeGenerator interface
type Generator struct {
	options Options
}

// NewGenerator creates a generator with default options
func NewGenerator() *Generator {
	return NewGeneratorWithOptions(DefaultOptions())
}

// NewGeneratorWithOptions creates a generator; empty string options fall back
// to their defaults
func NewGeneratorWithOptions(options Options) *Generator {
	defaults := DefaultOptions()
	if options.OutputFile == "" {
		options.OutputFile = defaults.OutputFile
	}
	if options.RuntimeImport == "" {
		options.RuntimeImport = defaults.RuntimeImport
	}
	if options.DefaultFunc == "" {
		options.DefaultFunc = defaults.DefaultFunc
	}
	return &Generator{options: options}
}

// Options returns the effective options
func (g *Generator) Options() Options {
	return g.options
}

// GenerateRegistry renders the registry file for a package. Every directive
// becomes one function returning its handlers in declaration order. A package
// without directives yields nil.
func (g *Generator) GenerateRegistry(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasDirectives() {
		return nil, nil
	}

	directives := g.applyDefaultNames(metadata.Directives)

	if err := CheckContract(metadata, directives, g.contractOptions()); err != nil {
		return nil, err
	}

	outputPath := filepath.Join(metadata.PackagePath, g.options.OutputFile)
	result := &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    outputPath,
	}

	data := templates.RegistryFileData{
		PackageName:   metadata.PackageName,
		RuntimeImport: g.options.RuntimeImport,
		RuntimeAlias:  templates.RuntimeAlias(g.options.RuntimeImport),
	}

	for _, directive := range directives {
		bindings := resolver.ResolveAll(directive.Routes)
		expression := templates.EmitCollection(bindings, templates.HandlerType)

		result.Registries = append(result.Registries, models.GeneratedRegistry{
			FuncName:   directive.FuncName,
			Bindings:   bindings,
			Expression: expression,
		})
		data.Registries = append(data.Registries, templates.RegistryFuncData{
			FuncName:   directive.FuncName,
			Source:     sourceRef(directive.Location),
			Expression: expression,
		})
	}

	content, err := templates.RenderRegistryFile(data)
	if err != nil {
		return nil, errors.WrapGenerateError(g.options.OutputFile, err).
			WithLocation(errors.SourceLocation{File: metadata.PackagePath})
	}

	formatted, err := utils.FormatGoSource(outputPath, []byte(content))
	if err != nil {
		return nil, errors.WrapGenerateError(g.options.OutputFile, err).
			WithLocation(errors.SourceLocation{File: metadata.PackagePath}).
			WithSuggestions("Check the route names and -Name flags for invalid identifiers")
	}

	result.Content = string(formatted)
	return result, nil
}

func (g *Generator) contractOptions() ContractOptions {
	return ContractOptions{
		RequireModules:   g.options.ContractChecks,
		RejectDuplicates: g.options.RejectDuplicates,
	}
}

func (g *Generator) applyDefaultNames(directives []models.RegistryDirective) []models.RegistryDirective {
	named := make([]models.RegistryDirective, len(directives))
	copy(named, directives)
	for i := range named {
		if !named[i].NameSet {
			named[i].FuncName = g.options.DefaultFunc
		}
	}
	return named
}

// sourceRef names a directive location relative to its package: routes.go:12
func sourceRef(loc errors.SourceLocation) string {
	if loc.File == "" {
		return loc.String()
	}
	if loc.Line == 0 {
		return filepath.Base(loc.File)
	}
	return fmt.Sprintf("%s:%d", filepath.Base(loc.File), loc.Line)
}
