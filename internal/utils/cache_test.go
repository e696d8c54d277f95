package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "one")

	cache := NewFileCache[string]()
	calls := 0
	load := func() (string, error) {
		calls++
		data, err := os.ReadFile(path)
		return string(data), err
	}

	value, err := cache.Load(path, load)
	require.NoError(t, err)
	assert.Equal(t, "one", value)

	value, err = cache.Load(path, load)
	require.NoError(t, err)
	assert.Equal(t, "one", value)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Size())

	writeFile(t, path, "second")
	later := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	value, err = cache.Load(path, load)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
	assert.Equal(t, 2, calls)
}

func TestFileCache_LoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "one")

	cache := NewFileCache[int]()
	_, err := cache.Load(path, func() (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, cache.Size())
}

func TestFileCache_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	cache := NewFileCache[string]()
	for _, p := range []string{a, b} {
		_, err := cache.Load(p, func() (string, error) { return p, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Size())

	cache.Delete(a)
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}
