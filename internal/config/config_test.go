package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := `
runtime: example.com/ffi/runtime
output: ffi_gen.go
char_marker: c_char
comments: false
`

	c, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "example.com/ffi/runtime", c.Runtime)
	assert.Equal(t, "ffi_gen.go", c.Output)
	assert.Equal(t, "c_char", c.CharMarker)
	assert.False(t, c.GenerateComments())
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte("runtime: my/rt\n"))
	require.NoError(t, err)

	assert.Equal(t, "my/rt", c.Runtime)
	assert.Equal(t, DefaultOutput, c.Output)
	assert.Equal(t, DefaultCharMarker, c.CharMarker)
	assert.True(t, c.GenerateComments())
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("runtimes: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestParse_InvalidOutput(t *testing.T) {
	_, err := Parse([]byte("output: generated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a .go file name")
}

func TestParse_InvalidRuntime(t *testing.T) {
	_, err := Parse([]byte("runtime: example.com//rt\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: runtime:")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crepr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: x_gen.go\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x_gen.go", c.Output)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := Default()

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
