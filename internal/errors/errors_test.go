package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		loc      SourceLocation
		expected string
	}{
		{loc: SourceLocation{}, expected: "unknown location"},
		{loc: SourceLocation{Line: 3, Column: 4}, expected: "3:4"},
		{loc: SourceLocation{File: "routes.go"}, expected: "routes.go"},
		{loc: SourceLocation{File: "routes.go", Line: 3}, expected: "routes.go:3"},
		{loc: SourceLocation{File: "routes.go", Line: 3, Column: 4}, expected: "routes.go:3:4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.loc.String())
	}
	assert.True(t, SourceLocation{}.IsEmpty())
	assert.False(t, SourceLocation{File: "a.go", Line: 1}.IsEmpty())
}

func TestBaseError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(FileSystemErrorCode, "failed to write", cause).
		WithLocation(SourceLocation{File: "routes.go", Line: 2}).
		WithContext("path", "autogen_routes.go").
		WithSuggestions("free some space")

	assert.Equal(t, "routes.go:2: failed to write: disk full", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "autogen_routes.go", err.Context()["path"])
	assert.Equal(t, []string{"free some space"}, err.Suggestions())
	assert.ErrorIs(t, err, cause)

	assert.NotNil(t, New(SyntaxErrorCode, "x").Context())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "MalformedList", MalformedListErrorCode.String())
	assert.Equal(t, "UnresolvedBinding", UnresolvedBindingErrorCode.String())
	assert.Equal(t, "NameCollision", NameCollisionErrorCode.String())
	assert.Equal(t, "ConfigurationError", ConfigurationErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestHasCode(t *testing.T) {
	malformed := NewMalformedListError(SourceLocation{File: "a.go", Line: 1, Column: 5}, "42", "numeric literals are not route names")

	assert.True(t, HasCode(malformed, MalformedListErrorCode))
	assert.False(t, HasCode(malformed, SyntaxErrorCode))
	assert.False(t, HasCode(nil, MalformedListErrorCode))
	assert.False(t, HasCode(stderrors.New("plain"), MalformedListErrorCode))

	wrapped := WrapGenerateError("registry", malformed)
	assert.True(t, HasCode(wrapped, GenerationErrorCode))
	assert.True(t, HasCode(wrapped, MalformedListErrorCode))

	assert.True(t, HasCode(fmt.Errorf("context: %w", malformed), MalformedListErrorCode))
}

func TestMultipleErrors(t *testing.T) {
	collected := NewMultipleErrors()
	assert.NoError(t, collected.ErrorOrNil())
	assert.Equal(t, "no errors", collected.Error())

	first := NewUnresolvedBindingError(SourceLocation{File: "a.go", Line: 1}, "foo", "__foo_mod__")
	collected.Add(first)
	assert.Same(t, first, collected.ErrorOrNil())

	second := NewNameCollisionError(SourceLocation{File: "a.go", Line: 2}, "foo", SourceLocation{File: "a.go", Line: 1})
	collected.Add(second)

	err := collected.ErrorOrNil()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple errors (2 total)")
	assert.Contains(t, err.Error(), "  1. a.go:1: route \"foo\" has no companion module __foo_mod__")
	assert.True(t, HasCode(err, NameCollisionErrorCode))
	assert.True(t, HasCode(err, UnresolvedBindingErrorCode))
	assert.False(t, HasCode(err, SyntaxErrorCode))

	var rerr RouteGenError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UnresolvedBindingErrorCode, rerr.ErrorCode())
}

func TestMalformedListError(t *testing.T) {
	err := NewMalformedListError(SourceLocation{File: "a.go", Line: 1, Column: 5}, "42", "numeric literals are not route names")
	assert.Equal(t, `a.go:1:5: malformed route list: unexpected "42": numeric literals are not route names`, err.Error())

	err = NewMalformedListError(SourceLocation{File: "a.go", Line: 1, Column: 9}, "", "missing closing ']'")
	assert.Equal(t, "a.go:1:9: malformed route list: missing closing ']'", err.Error())
}

func TestWrapConfigurationError(t *testing.T) {
	err := WrapConfigurationError("routegen.toml", "load", stderrors.New("bad toml"))
	assert.Equal(t, "failed to load configuration 'routegen.toml': bad toml", err.Error())
	assert.Equal(t, "routegen.toml", err.Context()["config_type"])
}
