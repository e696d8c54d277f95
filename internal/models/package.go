package models

import "github.com/toyz/routegen/internal/errors"

// DefaultRegistryFunc is the function name used when a directive does not set -Name
const DefaultRegistryFunc = "CreateRoutes"

// RegistryDirective is one parsed //axon::routes annotation
type RegistryDirective struct {
	FuncName string                // name of the generated registry function
	NameSet  bool                  // FuncName came from an explicit -Name flag
	Routes   []RouteName           // route names in declaration order
	Location errors.SourceLocation // position of the annotation comment
	Raw      string                // the comment text as written
}

// PackageMetadata represents all registry directives found in a package
type PackageMetadata struct {
	PackageName  string                           // name of the Go package
	PackagePath  string                           // file system path to the package
	SourceFiles  []string                         // non-generated Go files that were read
	Directives   []RegistryDirective              // directives in file then line order
	Declarations map[string]errors.SourceLocation // top-level identifiers declared in the package
}

// HasDirectives reports whether the package declares at least one registry
func (p *PackageMetadata) HasDirectives() bool {
	return p != nil && len(p.Directives) > 0
}

// Declares reports whether the package declares a top-level identifier
func (p *PackageMetadata) Declares(name string) bool {
	if p == nil || p.Declarations == nil {
		return false
	}
	_, ok := p.Declarations[name]
	return ok
}
