package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/registry"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, registry.DefaultCapacity, cfg.Registry.Capacity)
	assert.Equal(t, registry.DefaultDiscoveryTimeout, cfg.Registry.Discovery.Timeout)
	assert.Equal(t, registry.DefaultDiscoveryWorkers, cfg.Registry.Discovery.Workers)
	assert.Equal(t, "camel", cfg.Introspect.NameStyle)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "metabind", cfg.Metrics.Namespace)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse([]byte(`
registry:
  capacity: 16
  discovery:
    timeout: 5s
    workers: 2
introspect:
  name_style: snake
  allow_unresolved: true
log:
  level: debug
  format: json
metrics:
  enabled: true
schemas: [a.yaml, b.yaml]
`))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Registry.Capacity)
	assert.Equal(t, 5*time.Second, cfg.Registry.Discovery.Timeout)
	assert.Equal(t, 2, cfg.Registry.Discovery.Workers)
	assert.Equal(t, "snake", cfg.Introspect.NameStyle)
	assert.True(t, cfg.Introspect.AllowUnresolved)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Schemas)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("registry: [1]"))
	assert.Error(t, err)

	_, err = Parse([]byte(`
registry:
  capacity: -1
introspect:
  name_style: kebab
log:
  level: loud
  format: xml
`))
	require.Error(t, err)
	for _, want := range []string{"registry.capacity", "introspect.name_style", "log.level", "log.format"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metabind.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: json\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer

	LogConfig{Level: "warn", Format: "json"}.Logger(&buf).Info("hidden")
	assert.Zero(t, buf.Len())

	LogConfig{Level: "warn", Format: "json"}.Logger(&buf).Warn("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, float64(1), line["k"])
}
