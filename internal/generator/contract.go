package generator

import (
	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/resolver"
)

// ContractOptions selects which checks CheckContract runs
type ContractOptions struct {
	RequireModules   bool
	RejectDuplicates bool
}

// runtimePackage is the identifier the generated file imports the runtime as
const runtimePackage = "axon"

// CheckContract validates directives against the package before anything is
// emitted. Function names must be unique across directives, and names the
// compiler would reject (init, main in package main, the runtime import) are
// refused. With RejectDuplicates a route may appear only once per directive.
// With RequireModules every route needs a package-level companion module. All
// violations are returned together.
func CheckContract(metadata *models.PackageMetadata, directives []models.RegistryDirective, options ContractOptions) error {
	collected := errors.NewMultipleErrors()

	if declared, exists := metadata.Declarations[runtimePackage]; exists && len(directives) > 0 {
		collected.Add(errors.NewReservedNameError(declared, runtimePackage, "the generated file imports the runtime package under this name").
			WithSuggestions("Rename the package-level " + runtimePackage + " declaration"))
	}

	funcs := make(map[string]errors.SourceLocation)
	for _, directive := range directives {
		if reason, reserved := reservedFuncName(directive.FuncName, metadata.PackageName); reserved {
			collected.Add(errors.NewReservedNameError(directive.Location, directive.FuncName, reason).
				WithSuggestions("Pick another -Name"))
		}

		if previous, exists := funcs[directive.FuncName]; exists {
			collected.Add(errors.NewNameCollisionError(directive.Location, directive.FuncName, previous).
				WithSuggestions("Give each //axon::routes directive in a package its own -Name"))
		} else {
			funcs[directive.FuncName] = directive.Location
		}

		if declared, exists := metadata.Declarations[directive.FuncName]; exists {
			collected.Add(errors.NewNameCollisionError(directive.Location, directive.FuncName, declared).
				WithSuggestions("Rename the existing declaration or pick another -Name"))
		}

		if options.RejectDuplicates {
			checkDuplicateRoutes(directive, collected)
		}
		if options.RequireModules {
			checkModules(metadata, directive, collected)
		}
	}

	return collected.ErrorOrNil()
}

func reservedFuncName(name, packageName string) (string, bool) {
	switch {
	case name == "init":
		return "init functions cannot return values", true
	case name == "main" && packageName == "main":
		return "main functions cannot return values", true
	case name == runtimePackage:
		return "the generated file imports the runtime package under this name", true
	}
	return "", false
}

func checkDuplicateRoutes(directive models.RegistryDirective, collected *errors.MultipleErrors) {
	seen := make(map[string]errors.SourceLocation, len(directive.Routes))
	for _, route := range directive.Routes {
		if previous, exists := seen[route.Name]; exists {
			collected.Add(errors.NewNameCollisionError(route.Location, route.Name, previous))
			continue
		}
		seen[route.Name] = route.Location
	}
}

func checkModules(metadata *models.PackageMetadata, directive models.RegistryDirective, collected *errors.MultipleErrors) {
	reported := make(map[string]bool)
	for _, route := range directive.Routes {
		module := resolver.ModuleName(route.Name)
		if metadata.Declares(module) || reported[route.Name] {
			continue
		}
		reported[route.Name] = true
		collected.Add(errors.NewUnresolvedBindingError(route.Location, route.Name, module))
	}
}
