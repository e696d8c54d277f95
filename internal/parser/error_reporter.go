package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/routegen/internal/errors"
)

// ParserErrorReporter builds package-level scan errors with context and suggestions
type ParserErrorReporter struct{}

// NewParserErrorReporter creates a new parser error reporter
func NewParserErrorReporter() *ParserErrorReporter {
	return &ParserErrorReporter{}
}

// ReportMixedPackages reports a directory whose files declare different packages
func (r *ParserErrorReporter) ReportMixedPackages(dir string, filesByPackage map[string][]string) error {
	names := make([]string, 0, len(filesByPackage))
	for name := range filesByPackage {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]string, 0, len(names))
	for _, name := range names {
		files := make([]string, 0, len(filesByPackage[name]))
		for _, f := range filesByPackage[name] {
			files = append(files, filepath.Base(f))
		}
		details = append(details, fmt.Sprintf("%s (%s)", name, strings.Join(files, ", ")))
	}

	return errors.Newf(errors.SyntaxErrorCode, "multiple packages found in directory %s: %s", dir, strings.Join(details, "; ")).
		WithLocation(errors.SourceLocation{File: dir}).
		WithContext("packages", names).
		WithSuggestions(
			"Every non-test Go file in a directory must declare the same package",
			"Exclude helper programs with a //go:build ignore constraint",
		)
}

// ReportNoSourceFiles reports a directory with nothing to scan
func (r *ParserErrorReporter) ReportNoSourceFiles(dir string) error {
	return errors.Newf(errors.FileSystemErrorCode, "no Go source files found in directory %s", dir).
		WithLocation(errors.SourceLocation{File: dir}).
		WithSuggestions("Point routegen at a directory containing the //axon::routes directive")
}

// ReportParseFailure wraps a go/parser failure for one file
func (r *ParserErrorReporter) ReportParseFailure(file string, cause error) error {
	return errors.Wrap(errors.SyntaxErrorCode, "invalid Go source", cause).
		WithLocation(errors.SourceLocation{File: file}).
		WithSuggestions("Fix the Go syntax error before generating routes")
}
