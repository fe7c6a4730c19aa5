package cacheio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "doc.yaml")
	in := doc{Name: "a", Items: []string{"x", "y"}}

	require.NoError(t, Write(path, in))

	var out doc
	status, err := Read(path, &out)
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, status)
	assert.Equal(t, in, out)
}

func TestReadAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	var out doc
	status, err := Read(path, &out)
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, status)
}

func TestReadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml: at all"), 0o644))

	var out doc
	status, _ := Read(path, &out)
	assert.Equal(t, StatusCorrupt, status)
}

func TestWriteIsAtomicNoPartialFileObserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, Write(path, doc{Name: "first"}))
	require.NoError(t, Write(path, doc{Name: "second"}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "doc.yaml", e.Name(), "leftover temp file")
	}

	var out doc
	_, err = Read(path, &out)
	require.NoError(t, err)
	assert.Equal(t, "second", out.Name)
}
