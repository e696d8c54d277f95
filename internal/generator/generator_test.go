package generator

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/resolver"
	"github.com/toyz/routegen/internal/templates"
)

func route(name string, line, column int) models.RouteName {
	return models.RouteName{
		Name:     name,
		Location: errors.SourceLocation{File: "pkg/routes.go", Line: line, Column: column},
	}
}

func directive(funcName string, line int, names ...string) models.RegistryDirective {
	routes := make([]models.RouteName, len(names))
	for i, name := range names {
		routes[i] = route(name, line, 17+i*4)
	}
	return models.RegistryDirective{
		FuncName: funcName,
		NameSet:  funcName != models.DefaultRegistryFunc,
		Routes:   routes,
		Location: errors.SourceLocation{File: "pkg/routes.go", Line: line, Column: 1},
	}
}

// metadataFor declares a companion module for every listed route
func metadataFor(directives ...models.RegistryDirective) *models.PackageMetadata {
	metadata := &models.PackageMetadata{
		PackageName:  "api",
		PackagePath:  "pkg",
		Directives:   directives,
		Declarations: make(map[string]errors.SourceLocation),
	}
	for _, d := range directives {
		for _, r := range d.Routes {
			metadata.Declarations[resolver.ModuleName(r.Name)] = errors.SourceLocation{File: "pkg/modules.go", Line: 1}
		}
	}
	return metadata
}

func TestGenerateRegistry_NilMetadata(t *testing.T) {
	_, err := NewGenerator().GenerateRegistry(nil)
	assert.EqualError(t, err, "metadata cannot be nil")
}

func TestGenerateRegistry_NoDirectives(t *testing.T) {
	result, err := NewGenerator().GenerateRegistry(&models.PackageMetadata{PackageName: "api", PackagePath: "pkg"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGenerateRegistry_SingleDirective(t *testing.T) {
	metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "list_users", "get_user"))

	result, err := NewGenerator().GenerateRegistry(metadata)
	require.NoError(t, err)

	assert.Equal(t, "api", result.PackageName)
	assert.Equal(t, filepath.Join("pkg", DefaultOutputFile), result.FilePath)
	assert.Equal(t, 2, result.RouteCount())
	require.Len(t, result.Registries, 1)
	assert.Equal(t, []string{"list_users", "get_user"}, result.Registries[0].Bindings.Names())

	expected := `// Code generated by routegen. DO NOT EDIT.

package api

import "github.com/toyz/routegen/pkg/axon"

// CreateRoutes constructs the route handlers listed at routes.go:3.
// Handlers are returned in declaration order.
func CreateRoutes() []axon.RouteHandler {
	return []axon.RouteHandler{
		axon.RouteHandler(__list_users_mod__.list_users_handler.New()),
		axon.RouteHandler(__get_user_mod__.get_user_handler.New()),
	}
}
`
	assert.Equal(t, expected, result.Content)
}

func TestGenerateRegistry_EmptyList(t *testing.T) {
	result, err := NewGenerator().GenerateRegistry(metadataFor(directive(models.DefaultRegistryFunc, 3)))
	require.NoError(t, err)

	assert.Contains(t, result.Content, "return []axon.RouteHandler{}")
	assert.Zero(t, result.RouteCount())
}

func TestGenerateRegistry_MultipleDirectives(t *testing.T) {
	metadata := metadataFor(
		directive("PublicRoutes", 3, "b", "a"),
		directive("AdminRoutes", 9, "c"),
	)

	result, err := NewGenerator().GenerateRegistry(metadata)
	require.NoError(t, err)

	require.Len(t, result.Registries, 2)
	assert.Equal(t, "PublicRoutes", result.Registries[0].FuncName)
	assert.Equal(t, "AdminRoutes", result.Registries[1].FuncName)
	assert.Less(t, strings.Index(result.Content, "func PublicRoutes"), strings.Index(result.Content, "func AdminRoutes"))
	assert.Less(t, strings.Index(result.Content, "__b_mod__"), strings.Index(result.Content, "__a_mod__"))

	_, err = parser.ParseFile(token.NewFileSet(), result.FilePath, result.Content, parser.ParseComments)
	assert.NoError(t, err)
}

func TestGenerateRegistry_Options(t *testing.T) {
	metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a"))

	g := NewGeneratorWithOptions(Options{
		OutputFile:     "routes_gen.go",
		RuntimeImport:  "example.com/app/handlers",
		DefaultFunc:    "Routes",
		ContractChecks: true,
	})

	result, err := g.GenerateRegistry(metadata)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("pkg", "routes_gen.go"), result.FilePath)
	assert.Contains(t, result.Content, `import axon "example.com/app/handlers"`)
	assert.Contains(t, result.Content, "func Routes() []axon.RouteHandler {")
	assert.Equal(t, "Routes", result.Registries[0].FuncName)
}

func TestGenerateRegistry_ExplicitNameKeepsPriority(t *testing.T) {
	d := directive("Custom", 3, "a")
	g := NewGeneratorWithOptions(Options{DefaultFunc: "Routes", ContractChecks: true})

	result, err := g.GenerateRegistry(metadataFor(d))
	require.NoError(t, err)
	assert.Contains(t, result.Content, "func Custom()")
}

func TestGenerateRegistry_Deterministic(t *testing.T) {
	metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "x", "y", "z"))

	first, err := NewGenerator().GenerateRegistry(metadata)
	require.NoError(t, err)
	second, err := NewGenerator().GenerateRegistry(metadata)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, "CreateRoutes", metadata.Directives[0].FuncName)
}

func TestGenerateRegistry_ContractFailures(t *testing.T) {
	t.Run("missing companion module", func(t *testing.T) {
		metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a", "b"))
		delete(metadata.Declarations, "__b_mod__")

		result, err := NewGenerator().GenerateRegistry(metadata)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.HasCode(err, errors.UnresolvedBindingErrorCode))
		assert.Contains(t, err.Error(), "__b_mod__")
	})

	t.Run("missing module allowed without contract checks", func(t *testing.T) {
		metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a"))
		metadata.Declarations = map[string]errors.SourceLocation{}

		g := NewGeneratorWithOptions(Options{RejectDuplicates: true})
		result, err := g.GenerateRegistry(metadata)
		require.NoError(t, err)
		assert.Contains(t, result.Content, "__a_mod__.a_handler.New()")
	})

	t.Run("duplicate route rejected", func(t *testing.T) {
		metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a", "a"))

		_, err := NewGenerator().GenerateRegistry(metadata)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.NameCollisionErrorCode))
	})

	t.Run("reserved function names", func(t *testing.T) {
		for _, name := range []string{"init", "axon"} {
			metadata := metadataFor(directive(name, 3, "a"))

			result, err := NewGeneratorWithOptions(Options{}).GenerateRegistry(metadata)
			require.Error(t, err, name)
			assert.Nil(t, result)
			assert.True(t, errors.HasCode(err, errors.NameCollisionErrorCode), name)
		}
	})

	t.Run("duplicate route kept when allowed", func(t *testing.T) {
		metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a", "b", "a"))

		g := NewGeneratorWithOptions(Options{ContractChecks: true, RejectDuplicates: false})
		result, err := g.GenerateRegistry(metadata)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(result.Content, "__a_mod__.a_handler.New()"))
		assert.Equal(t, 3, result.RouteCount())
	})
}

func TestEmitterOutputMatchesTemplatesPackage(t *testing.T) {
	metadata := metadataFor(directive(models.DefaultRegistryFunc, 3, "a", "b"))

	result, err := NewGenerator().GenerateRegistry(metadata)
	require.NoError(t, err)

	expected := templates.EmitCollection(resolver.ResolveAll(metadata.Directives[0].Routes), templates.HandlerType)
	assert.Equal(t, expected, result.Registries[0].Expression)
}

func TestSourceRef(t *testing.T) {
	assert.Equal(t, "routes.go:12", sourceRef(errors.SourceLocation{File: "a/b/routes.go", Line: 12, Column: 3}))
	assert.Equal(t, "routes.go", sourceRef(errors.SourceLocation{File: "a/routes.go"}))
	assert.Equal(t, "unknown location", sourceRef(errors.SourceLocation{}))
}
