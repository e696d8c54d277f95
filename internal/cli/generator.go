package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/generator"
	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/parser"
	"github.com/toyz/routegen/internal/templates"
	"github.com/toyz/routegen/internal/utils"
)

// PackagePlan is the generation result for one package directory. File is
// nil when the package declares no registry.
type PackagePlan struct {
	Dir        string
	OutputPath string
	File       *models.GeneratedFile
}

// Generator coordinates the CLI generation process
type Generator struct {
	fileReader  *utils.FileReader
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
	resolver    *ModuleResolver
	summary     GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	fileReader := utils.NewFileReader()
	return &Generator{
		fileReader:  fileReader,
		diagnostics: diagnostics,
		reporter:    NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose),
		resolver:    NewModuleResolver(fileReader),
		summary:     GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// SetModuleResolver replaces the resolver used to find go.mod
func (g *Generator) SetModuleResolver(resolver *ModuleResolver) {
	g.resolver = resolver
}

// Reporter returns the reporter used for failures
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run generates registry files for every package matched by config and writes
// the ones whose content changed. Nothing is written if any package fails.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.diagnostics.Verbose("Starting route generation at %s", startTime.Format("15:04:05"))

	plans, err := g.Plan(&config)
	if err != nil {
		return err
	}

	for _, plan := range plans {
		if plan.File == nil {
			removed, err := removeGenerated(plan.OutputPath)
			if err != nil {
				return err
			}
			if removed {
				g.diagnostics.Verbose("Removed stale %s", plan.OutputPath)
				g.summary.RemovedFiles = append(g.summary.RemovedFiles, plan.OutputPath)
			}
			continue
		}

		changed, err := writeIfChanged(plan.OutputPath, plan.File.Content)
		if err != nil {
			return err
		}
		if changed {
			g.diagnostics.PhaseItem("%s (%d routes)", plan.OutputPath, plan.File.RouteCount())
			g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, plan.OutputPath)
		} else {
			g.diagnostics.Verbose("%s is up to date", plan.OutputPath)
			g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, plan.OutputPath)
		}
	}

	g.diagnostics.Verbose("Route generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// Plan finalizes config, scans the matched packages in sorted order and
// renders their registries in memory. It writes nothing.
func (g *Generator) Plan(config *Config) ([]PackagePlan, error) {
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}
	if err := config.Finalize(); err != nil {
		return nil, err
	}

	g.diagnostics.StartProgress("Resolving module name")
	moduleName, err := g.resolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		if config.RuntimeImport == "" && g.diagnostics.Level() >= utils.DiagnosticWarn {
			g.reporter.ReportWarning(
				fmt.Sprintf("%v; using runtime import %s", err, generator.DefaultRuntimeImport),
				"Run routegen inside a Go module or set runtime_import in routegen.toml",
			)
		}
	} else {
		g.diagnostics.EndProgress(true, moduleName)
	}

	config.RuntimeImport = g.resolver.ResolveRuntimeImport(config.RuntimeImport, moduleName)
	g.diagnostics.Debug("Effective configuration: %s", config)

	g.diagnostics.StartProgress("Scanning directories for Go packages")
	scanner := NewDirectoryScanner(config.OutputFile)
	packageDirs, err := scanner.ScanDirectories(config.Directories)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return nil, err
	}
	if len(packageDirs) == 0 {
		g.diagnostics.EndProgress(false, "")
		return nil, errors.New(errors.FileSystemErrorCode, "no Go packages found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestions(
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use './...' pattern",
			)
	}
	g.diagnostics.EndProgress(true, "")
	g.diagnostics.Info("Found %d packages to process", len(packageDirs))

	directiveScanner := parser.NewParserWithReader(g.fileReader, config.OutputFile)
	codeGenerator := generator.NewGeneratorWithOptions(config.GeneratorOptions())

	collected := errors.NewMultipleErrors()
	plans := make([]PackagePlan, 0, len(packageDirs))

	for _, dir := range packageDirs {
		g.summary.PackagesProcessed++
		plan, err := g.planPackage(directiveScanner, codeGenerator, dir, moduleName)
		if err != nil {
			addCollected(collected, err)
			continue
		}
		plans = append(plans, plan)
	}

	if err := collected.ErrorOrNil(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (g *Generator) planPackage(scanner parser.DirectiveScanner, codeGenerator generator.CodeGenerator, dir, moduleName string) (PackagePlan, error) {
	plan := PackagePlan{
		Dir:        dir,
		OutputPath: filepath.Join(dir, codeGenerator.Options().OutputFile),
	}

	metadata, err := scanner.ParseDirectory(dir)
	if err != nil {
		return plan, err
	}
	if !metadata.HasDirectives() {
		g.diagnostics.Debug("%s: no //axon::routes directive", dir)
		return plan, nil
	}

	if moduleName != "" {
		if importPath, err := g.resolver.BuildPackagePath(moduleName, dir); err == nil {
			g.diagnostics.Verbose("Generating registry for %s", importPath)
		}
	}

	file, err := codeGenerator.GenerateRegistry(metadata)
	if err != nil {
		return plan, err
	}

	plan.File = file
	g.summary.RegistriesGenerated += len(file.Registries)
	g.summary.RoutesFound += file.RouteCount()
	return plan, nil
}

// ReportSuccess prints the summary of the last run
func (g *Generator) ReportSuccess() {
	if g.diagnostics.Level() < utils.DiagnosticInfo {
		return
	}
	g.reporter.ReportSuccess(g.summary)
}

// writeIfChanged writes content unless the file already holds it
func writeIfChanged(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, errors.WrapFileSystemError("read", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, errors.WrapFileSystemError("write", path, err)
	}
	return true, nil
}

// IsGeneratedFile reports whether path exists and starts with the generated header
func IsGeneratedFile(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapFileSystemError("read", path, err)
	}
	return bytes.HasPrefix(content, []byte(templates.GeneratedHeader)), nil
}

// removeGenerated deletes path if it is a generated file
func removeGenerated(path string) (bool, error) {
	generated, err := IsGeneratedFile(path)
	if err != nil || !generated {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, errors.WrapFileSystemError("remove", path, err)
	}
	return true, nil
}

func addCollected(collected *errors.MultipleErrors, err error) {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		for _, e := range multi.Errors {
			collected.Add(e)
		}
		return
	}
	if rerr, ok := err.(errors.RouteGenError); ok {
		collected.Add(rerr)
		return
	}
	collected.Add(errors.Wrap(errors.GenerationErrorCode, "generation failed", err))
}
