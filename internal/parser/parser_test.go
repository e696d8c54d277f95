package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
)

const outputFile = "autogen_routes.go"

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func routeNames(d models.RegistryDirective) []string {
	names := make([]string, len(d.Routes))
	for i, r := range d.Routes {
		names[i] = r.Name
	}
	return names
}

func TestParser_ParseSource(t *testing.T) {
	source := `package api

//go:generate routegen generate .

//axon::routes [list_users, get_user,]
var _ = 0

type __list_users_mod__ struct{}

var (
	__get_user_mod__ = struct{}{}
	a, b             = 1, 2
)

const limit = 10

func helper() {}

func (s server) method() {}

func init() {}

type server struct{}
`
	metadata, err := NewParser(outputFile).ParseSource("routes.go", source)
	require.NoError(t, err)

	assert.Equal(t, "api", metadata.PackageName)
	assert.Equal(t, []string{"routes.go"}, metadata.SourceFiles)

	require.Len(t, metadata.Directives, 1)
	directive := metadata.Directives[0]
	assert.Equal(t, models.DefaultRegistryFunc, directive.FuncName)
	assert.Equal(t, []string{"list_users", "get_user"}, routeNames(directive))
	assert.Equal(t, errors.SourceLocation{File: "routes.go", Line: 5, Column: 1}, directive.Location)
	assert.Equal(t, errors.SourceLocation{File: "routes.go", Line: 5, Column: 17}, directive.Routes[0].Location)

	for _, name := range []string{"__list_users_mod__", "__get_user_mod__", "a", "b", "limit", "helper", "server"} {
		assert.True(t, metadata.Declares(name), name)
	}
	for _, name := range []string{"_", "method", "init"} {
		assert.False(t, metadata.Declares(name), name)
	}
	assert.Equal(t, 8, metadata.Declarations["__list_users_mod__"].Line)
}

func TestParser_ParseSource_MultipleDirectives(t *testing.T) {
	source := `package api

//axon::routes [a, b] -Name=PublicRoutes

func build() {
	// axon::routes c -Name=AdminRoutes
}

/* axon::routes [ignored] */
`
	metadata, err := NewParser(outputFile).ParseSource("routes.go", source)
	require.NoError(t, err)

	require.Len(t, metadata.Directives, 2)
	assert.Equal(t, "PublicRoutes", metadata.Directives[0].FuncName)
	assert.Equal(t, []string{"a", "b"}, routeNames(metadata.Directives[0]))
	assert.Equal(t, "AdminRoutes", metadata.Directives[1].FuncName)
	assert.Equal(t, []string{"c"}, routeNames(metadata.Directives[1]))
	assert.Equal(t, 6, metadata.Directives[1].Location.Line)
	assert.Equal(t, 2, metadata.Directives[1].Location.Column)
}

func TestParser_ParseSource_ReportsEveryMalformedDirective(t *testing.T) {
	source := `package api

//axon::routes [a, "b"]

//axon::routes [c, 42]

//axon::routes [ok]
`
	_, err := NewParser(outputFile).ParseSource("routes.go", source)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 2)
	assert.Equal(t, 3, multi.Errors[0].Location().Line)
	assert.Equal(t, 5, multi.Errors[1].Location().Line)
	assert.True(t, errors.HasCode(err, errors.MalformedListErrorCode))
}

func TestParser_ParseSource_InvalidSyntax(t *testing.T) {
	_, err := NewParser(outputFile).ParseSource("broken.go", "package api\nfunc {")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.SyntaxErrorCode))
}

func TestParser_ParseDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b_routes.go":       "package api\n\n//axon::routes [second] -Name=Second\n",
		"a_routes.go":       "package api\n\n//axon::routes [first]\n\nvar __first_mod__ = 1\n",
		"modules.go":        "package api\n\nvar __second_mod__ = 2\n",
		"routes_test.go":    "package api_test\n\n//axon::routes [from_test]\n",
		outputFile:          "package api\n\n//axon::routes [from_output]\n",
		"tools.go":          "//go:build ignore\n\npackage main\n\n//axon::routes [from_tool]\n",
		"notes/ignored.txt": "//axon::routes [x]",
	})

	metadata, err := NewParser(outputFile).ParseDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, "api", metadata.PackageName)
	assert.Equal(t, dir, metadata.PackagePath)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_routes.go"),
		filepath.Join(dir, "b_routes.go"),
		filepath.Join(dir, "modules.go"),
	}, metadata.SourceFiles)

	require.Len(t, metadata.Directives, 2)
	assert.Equal(t, []string{"first"}, routeNames(metadata.Directives[0]))
	assert.Equal(t, filepath.Join(dir, "a_routes.go"), metadata.Directives[0].Location.File)
	assert.Equal(t, "Second", metadata.Directives[1].FuncName)
	assert.True(t, metadata.Declares("__first_mod__"))
	assert.True(t, metadata.Declares("__second_mod__"))
	assert.True(t, metadata.HasDirectives())
}

func TestParser_ParseDirectory_NoDirectives(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.go": "package main\n\nfunc main() {}\n"})

	metadata, err := NewParser(outputFile).ParseDirectory(dir)
	require.NoError(t, err)
	assert.False(t, metadata.HasDirectives())
}

func TestParser_ParseDirectory_OnlyIgnoredFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"gen.go": "//go:build ignore\n\npackage main\n\n//axon::routes [from_tool]\n",
	})

	metadata, err := NewParser(outputFile).ParseDirectory(dir)
	require.NoError(t, err)
	assert.False(t, metadata.HasDirectives())
	assert.Empty(t, metadata.SourceFiles)
}

func TestParser_ParseDirectory_BuildConstraints(t *testing.T) {
	tests := []struct {
		constraint string
		scanned    bool
	}{
		{constraint: "ignore", scanned: false},
		{constraint: "ignore && linux", scanned: false},
		{constraint: "ignore || tools", scanned: false},
		{constraint: "(ignore || tools) && !windows", scanned: false},
		{constraint: "!ignore", scanned: true},
		{constraint: "ignore || linux", scanned: true},
		{constraint: "windows", scanned: true},
		{constraint: "tools", scanned: true},
		{constraint: "linux && !windows", scanned: true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{
				"routes.go":  "package api\n\n//axon::routes [a]\n",
				"modules.go": "//go:build " + tt.constraint + "\n\npackage api\n\nvar __a_mod__ = 1\n",
			})

			metadata, err := NewParser(outputFile).ParseDirectory(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.scanned, metadata.Declares("__a_mod__"))
		})
	}
}

func TestParser_ParseDirectory_Errors(t *testing.T) {
	t.Run("mixed packages", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"a.go": "package one\n",
			"b.go": "package two\n",
		})

		_, err := NewParser(outputFile).ParseDirectory(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple packages found")
		assert.Contains(t, err.Error(), "one (a.go); two (b.go)")
	})

	t.Run("no source files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"a_test.go": "package a\n"})

		_, err := NewParser(outputFile).ParseDirectory(dir)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewParser(outputFile).ParseDirectory(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
	})

	t.Run("malformed directives across files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"a.go": "package api\n\n//axon::routes [a::b]\n",
			"b.go": "package api\n\n//axon::routes [c] -Prefix=x\n",
		})

		_, err := NewParser(outputFile).ParseDirectory(dir)
		require.Error(t, err)

		var multi *errors.MultipleErrors
		require.ErrorAs(t, err, &multi)
		require.Len(t, multi.Errors, 2)
		assert.Equal(t, errors.MalformedListErrorCode, multi.Errors[0].ErrorCode())
		assert.Equal(t, errors.SyntaxErrorCode, multi.Errors[1].ErrorCode())
	})
}

func TestParserErrorReporter(t *testing.T) {
	reporter := NewParserErrorReporter()

	err := reporter.ReportMixedPackages("pkg", map[string][]string{
		"b": {"pkg/b.go"},
		"a": {"pkg/a1.go", "pkg/a2.go"},
	})
	assert.EqualError(t, err, "pkg: multiple packages found in directory pkg: a (a1.go, a2.go); b (b.go)")

	var rerr errors.RouteGenError
	require.ErrorAs(t, err, &rerr)
	assert.NotEmpty(t, rerr.Suggestions())
}
