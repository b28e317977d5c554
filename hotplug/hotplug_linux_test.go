package hotplug

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNotifiesOnInputNodes(t *testing.T) {
	dir := t.TempDir()
	w := New(nil)
	w.Dir = dir

	var count atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() { count.Add(1) }) }()

	// let the watch register
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js0"), nil, 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "js0")))

	assert.Eventually(t, func() bool { return count.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunMissingDir(t *testing.T) {
	w := New(nil)
	w.Dir = filepath.Join(t.TempDir(), "missing")
	err := w.Run(context.Background(), func() {})
	assert.Error(t, err)
}

func TestIsInputNode(t *testing.T) {
	assert.True(t, isInputNode("js1"))
	assert.True(t, isInputNode("event12"))
	assert.False(t, isInputNode("mice"))
	assert.False(t, isInputNode("by-id"))
}
