package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/routegen/internal/utils"
)

const testRuntime = "github.com/toyz/routegen/pkg/axon"

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func silentDiagnostics() *utils.DiagnosticSystem {
	return utils.NewDiagnosticSystem(utils.DiagnosticSilent).SetOutput(io.Discard, io.Discard)
}

func newTestGenerator(root string) *Generator {
	g := NewGenerator(silentDiagnostics())
	g.Reporter().SetOutput(io.Discard, io.Discard)
	g.SetModuleResolver(NewModuleResolverAt(root, utils.NewFileReader()))
	return g
}

// routesPackage is a package with one directive and both companion modules
var routesPackage = map[string]string{
	"routes.go": `package api

//go:generate routegen generate .

//axon::routes [list_users, get_user,]
`,
	"modules.go": `package api

var __list_users_mod__ = struct{ list_users_handler ctor }{}

var __get_user_mod__ = struct{ get_user_handler ctor }{}

type ctor struct{}
`,
}

func testConfig(dirs ...string) Config {
	return Config{
		Directories:   dirs,
		ModuleName:    "example.com/app",
		RuntimeImport: testRuntime,
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
