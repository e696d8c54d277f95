package parser

import (
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"strings"

	"github.com/toyz/routegen/internal/annotations"
	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/utils"
)

// Parser implements the DirectiveScanner interface
type Parser struct {
	fileReader    *utils.FileReader
	fileProcessor *utils.FileProcessor
	reporter      *ParserErrorReporter
}

// NewParser creates a scanner that ignores the generated outputFile
func NewParser(outputFile string) *Parser {
	return NewParserWithReader(utils.NewFileReader(), outputFile)
}

// NewParserWithReader creates a scanner sharing an existing file reader and its cache
func NewParserWithReader(fileReader *utils.FileReader, outputFile string) *Parser {
	return &Parser{
		fileReader:    fileReader,
		fileProcessor: utils.NewFileProcessor(outputFile),
		reporter:      NewParserErrorReporter(),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileReader.FileSet(), filename, source, parser.ParseComments)
	if err != nil {
		return nil, p.reporter.ReportParseFailure(filename, err)
	}

	metadata := newMetadata(file.Name.Name, ".")
	if err := p.collect(file, filename, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory reads every non-test Go file in path and extracts its directives
// and top-level declarations. Files are visited in name order so the directive
// order is stable.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	files, err := p.fileProcessor.SourceFiles(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", path, err)
	}

	parsed := make(map[string]*ast.File, len(files))
	filesByPackage := make(map[string][]string)
	var kept []string

	for _, fileName := range files {
		file, err := p.fileReader.ParseGoFile(fileName)
		if err != nil {
			return nil, p.reporter.ReportParseFailure(fileName, err)
		}
		if isIgnored(file) {
			continue
		}
		parsed[fileName] = file
		kept = append(kept, fileName)
		filesByPackage[file.Name.Name] = append(filesByPackage[file.Name.Name], fileName)
	}

	if len(files) == 0 {
		return nil, p.reporter.ReportNoSourceFiles(path)
	}
	// the go tool skips a directory whose files are all ignored
	if len(kept) == 0 {
		return newMetadata("", path), nil
	}
	if len(filesByPackage) > 1 {
		return nil, p.reporter.ReportMixedPackages(path, filesByPackage)
	}

	metadata := newMetadata(parsed[kept[0]].Name.Name, path)

	collected := errors.NewMultipleErrors()
	for _, fileName := range kept {
		if err := p.collect(parsed[fileName], fileName, metadata); err != nil {
			addErrors(collected, err)
		}
	}
	if err := collected.ErrorOrNil(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ExtractDirectives returns every //axon::routes directive in file, in source
// order. Every malformed directive is reported, not just the first.
func (p *Parser) ExtractDirectives(file *ast.File, fileName string) ([]models.RegistryDirective, error) {
	fset := p.fileReader.FileSet()
	var directives []models.RegistryDirective
	collected := errors.NewMultipleErrors()

	for _, group := range file.Comments {
		for _, comment := range group.List {
			if !annotations.IsDirective(comment.Text) {
				continue
			}

			pos := fset.Position(comment.Slash)
			location := errors.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}

			directive, err := annotations.ParseDirective(comment.Text, location)
			if err != nil {
				addErrors(collected, err)
				continue
			}
			directives = append(directives, *directive)
		}
	}

	return directives, collected.ErrorOrNil()
}

func (p *Parser) collect(file *ast.File, fileName string, metadata *models.PackageMetadata) error {
	metadata.SourceFiles = append(metadata.SourceFiles, fileName)
	p.collectDeclarations(file, fileName, metadata.Declarations)

	directives, err := p.ExtractDirectives(file, fileName)
	if err != nil {
		return err
	}
	metadata.Directives = append(metadata.Directives, directives...)
	return nil
}

// collectDeclarations records package-level identifiers. The first declaration
// of a name wins.
func (p *Parser) collectDeclarations(file *ast.File, fileName string, declarations map[string]errors.SourceLocation) {
	fset := p.fileReader.FileSet()
	record := func(ident *ast.Ident) {
		if ident == nil || ident.Name == "_" {
			return
		}
		if _, exists := declarations[ident.Name]; exists {
			return
		}
		pos := fset.Position(ident.Pos())
		declarations[ident.Name] = errors.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name != "init" {
				record(d.Name)
			}
		case *ast.GenDecl:
			if d.Tok == token.IMPORT {
				continue
			}
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, name := range s.Names {
						record(name)
					}
				case *ast.TypeSpec:
					record(s.Name)
				}
			}
		}
	}
}

func newMetadata(packageName, path string) *models.PackageMetadata {
	return &models.PackageMetadata{
		PackageName:  packageName,
		PackagePath:  path,
		Declarations: make(map[string]errors.SourceLocation),
	}
}

// isIgnored reports whether a //go:build line mentioning the ignore tag
// excludes file. Platform and release tags count as satisfiable and custom
// tags are off, as in a default go build. Files that never mention ignore
// are always scanned so output does not depend on the host platform.
func isIgnored(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}
			mentioned := false
			satisfied := expr.Eval(func(tag string) bool {
				if tag == "ignore" {
					mentioned = true
					return false
				}
				return isPlatformTag(tag)
			})
			if mentioned && !satisfied {
				return true
			}
		}
	}
	return false
}

var platformTags = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true, "freebsd": true,
	"illumos": true, "ios": true, "js": true, "linux": true, "netbsd": true,
	"openbsd": true, "plan9": true, "solaris": true, "wasip1": true, "windows": true,
	"386": true, "amd64": true, "arm": true, "arm64": true, "loong64": true,
	"mips": true, "mipsle": true, "mips64": true, "mips64le": true, "ppc64": true,
	"ppc64le": true, "riscv64": true, "s390x": true, "wasm": true,
	"unix": true, "cgo": true, "gc": true, "gccgo": true,
}

func isPlatformTag(tag string) bool {
	return platformTags[tag] || strings.HasPrefix(tag, "go1.")
}

func addErrors(collected *errors.MultipleErrors, err error) {
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
	collected.Add(errors.Wrap(errors.UnknownErrorCode, "scan failed", err))
}
