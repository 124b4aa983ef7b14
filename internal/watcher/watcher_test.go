package watcher

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

func TestFileChanged_Debounces(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(filepath.Join(dir, "Settings.xml"), 50*time.Millisecond, func() {
		calls.Add(1)
	})
	require.NoError(t, err)
	defer w.Stop()

	for i := 0; i < 5; i++ {
		w.FileChanged()
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_ReportsWritesToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Settings.xml")
	changed := make(chan struct{}, 4)

	w, err := New(path, 20*time.Millisecond, func() { changed <- struct{}{} })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("<Settings/>"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "Settings.xml"), time.Millisecond, nil)
	assert.Error(t, err)
}
