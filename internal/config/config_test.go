package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DEVCONSOLE_MODULES", "DEVCONSOLE_DEBUG", "DEVCONSOLE_DARK_MODE"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Console.Modules)
	assert.Equal(t, "`", cfg.Console.OpenKey)
	assert.True(t, cfg.Gesture.Enabled)
	assert.Equal(t, 2, cfg.Gesture.Loops)
	assert.False(t, cfg.Logging.DebugMode)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := DefaultPath(t.TempDir())

	cfg := DefaultConfig()
	cfg.Console.Modules = []string{"playground", "engine"}
	cfg.Gesture.Loops = 3
	cfg.Logging.Categories = map[string]bool{"gesture": false}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("console:\n  modules: [playground]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"playground"}, cfg.Console.Modules)
	assert.Equal(t, 10, cfg.Gesture.MinPoints)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("console: [\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DEVCONSOLE_MODULES", " playground, ,engine ")
	t.Setenv("DEVCONSOLE_DEBUG", "true")
	t.Setenv("DEVCONSOLE_DARK_MODE", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"playground", "engine"}, cfg.Console.Modules)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.UI.DarkMode)
}

func TestConfig_EnvOverrideInvalidBoolIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEVCONSOLE_DEBUG", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"loops", func(c *Config) { c.Gesture.Loops = 0 }, "gesture.loops"},
		{"min points", func(c *Config) { c.Gesture.MinPoints = 2 }, "gesture.min_points"},
		{"min step", func(c *Config) { c.Gesture.MinStep = 0 }, "gesture.min_step"},
		{"open key", func(c *Config) { c.Console.OpenKey = " " }, "console.open_key"},
		{"level", func(c *Config) { c.Logging.Level = "trace" }, "invalid logging level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "invalid logging format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Categories: map[string]bool{"ui": false}, Level: "warn"}
	assert.False(t, lc.Settings().JSONFormat)

	lc.DebugMode = true
	lc.Format = "json"
	s := lc.Settings()
	assert.True(t, s.JSONFormat)
	assert.Equal(t, "warn", s.Level)
	assert.True(t, s.DebugMode)
	assert.Equal(t, lc.Categories, s.Categories)
}

func TestGestureRecognizerConfig(t *testing.T) {
	g := DefaultConfig().Gesture.Recognizer()
	assert.Equal(t, 2, g.Loops)
	assert.Equal(t, 10, g.MinPoints)
	assert.Equal(t, 1.0, g.MinStep)
}
