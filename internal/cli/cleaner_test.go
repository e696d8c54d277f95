package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	generated := "// Code generated by routegen. DO NOT EDIT.\n\npackage api\n"
	writeFiles(t, root, map[string]string{
		"api/routes.go":          "package api\n",
		"api/autogen_routes.go":  generated,
		"only/autogen_routes.go": generated,
		"hand/autogen_routes.go": "package hand\n",
		"hand/main.go":           "package hand\n",
	})

	removed, err := NewCleaner("autogen_routes.go").CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "api", "autogen_routes.go"),
		filepath.Join(root, "only", "autogen_routes.go"),
	}, removed)
	assert.NoFileExists(t, filepath.Join(root, "api", "autogen_routes.go"))
	assert.FileExists(t, filepath.Join(root, "hand", "autogen_routes.go"))
	assert.FileExists(t, filepath.Join(root, "api", "routes.go"))
}

func TestCleaner_NonRecursive(t *testing.T) {
	root := t.TempDir()
	generated := "// Code generated by routegen. DO NOT EDIT.\n\npackage api\n"
	writeFiles(t, root, map[string]string{
		"autogen_routes.go":     generated,
		"sub/autogen_routes.go": generated,
	})

	removed, err := NewCleaner("autogen_routes.go").CleanGeneratedFiles([]string{root})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "autogen_routes.go")}, removed)
	assert.FileExists(t, filepath.Join(root, "sub", "autogen_routes.go"))
}

func TestCleaner_MissingDirectory(t *testing.T) {
	_, err := NewCleaner("autogen_routes.go").CleanGeneratedFiles([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
