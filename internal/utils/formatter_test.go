package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGoSource(t *testing.T) {
	source := "package routes\n\nimport \"fmt\"\n\nfunc   A()  []int {\nreturn []int{\n1,\n}\n}\n"

	formatted, err := FormatGoSource("autogen_routes.go", []byte(source))
	require.NoError(t, err)

	expected := "package routes\n\nimport \"fmt\"\n\nfunc A() []int {\n\treturn []int{\n\t\t1,\n\t}\n}\n"
	assert.Equal(t, expected, string(formatted))
}

func TestFormatGoSource_InvalidSyntax(t *testing.T) {
	_, err := FormatGoSource("broken.go", []byte("package routes\nfunc {"))
	assert.ErrorContains(t, err, "invalid Go syntax")
}

func TestValidateGoCode(t *testing.T) {
	assert.NoError(t, ValidateGoCode("package a\n"))
	assert.Error(t, ValidateGoCode("not go"))
}
