package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/custseg/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, config.Init(v, ""))

	c, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "kmeans.yaml", c.Model)
	assert.Equal(t, ":8501", c.Addr)
	assert.False(t, c.Verbose)
}

func TestInit_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CUSTSEG_MODEL", "/srv/models/segments.db")

	v := viper.New()
	require.NoError(t, config.Init(v, ""))

	c, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/models/segments.db", c.Model)
}

func TestInit_ConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: other.yaml\nverbose: true\naddr: 127.0.0.1:9000\n"), 0644))

	v := viper.New()
	require.NoError(t, config.Init(v, path))

	c, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", c.Model)
	assert.True(t, c.Verbose)
	assert.Equal(t, "127.0.0.1:9000", c.Addr)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	assert.Error(t, config.Init(v, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	config.Config{}.Logger(&buf).Debug("hidden")
	assert.Empty(t, buf.String())

	config.Config{Verbose: true}.Logger(&buf).Debug("shown", "session", "abc")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "session=abc")
}

func TestModelPath_IsAbsolute(t *testing.T) {
	c := config.Config{Model: "kmeans.yaml"}
	assert.True(t, filepath.IsAbs(c.ModelPath()))
}
