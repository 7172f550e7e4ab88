package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal("dp", cfg.Carving.Strategy)
	assert.Equal("#ff0000", cfg.Carving.SeamColor)
	assert.Equal(runtime.NumCPU(), cfg.Runtime.Workers)
	assert.False(cfg.Face.Detect)
	assert.False(cfg.Runtime.Debug)
}

func TestConfig_LoadOverridesDefaults(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "carve.yml")
	data := []byte(`
carving:
  strategy: greedy
  seamColor: "#00ff00"
face:
  detect: true
  cascadeFile: cascade/facefinder
runtime:
  workers: 4
`)
	assert.NoError(os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("greedy", cfg.Carving.Strategy)
	assert.Equal("#00ff00", cfg.Carving.SeamColor)
	assert.True(cfg.Face.Detect)
	assert.Equal("cascade/facefinder", cfg.Face.CascadeFile)
	assert.Equal(4, cfg.Runtime.Workers)
	// Omitted values keep their defaults.
	assert.False(cfg.Runtime.Debug)
}

func TestConfig_MissingFileYieldsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.NoError(err)
	assert.Equal("dp", cfg.Carving.Strategy)
}

func TestConfig_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carve.yml")
	assert.NoError(t, os.WriteFile(path, []byte("carving: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
