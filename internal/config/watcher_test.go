package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan *Config) {
	t.Helper()
	reloads := make(chan *Config, 8)
	w, err := NewWatcher(path, func(c *Config) { reloads <- c })
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
	return w, reloads
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("console:\n  modules: [engine]\n"), 0644))

	select {
	case cfg := <-reloads:
		assert.Equal(t, []string{"engine"}, cfg.Console.Modules)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload")
	}
	assert.Equal(t, 1, w.Stats().Reloads)
}

func TestWatcherKeepsPreviousOnInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("gesture:\n  loops: 0\n"), 0644))

	assert.Eventually(t, func() bool { return w.Stats().Rejected >= 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Empty(t, reloads)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, reloads)
	assert.Zero(t, w.Stats().Reloads)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.yaml"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, w.Run(ctx))
}
