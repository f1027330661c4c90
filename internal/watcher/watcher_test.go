package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	w := &implWatcher{extensions: []string{"wav", "mp3", "m4a", "mp4"}}

	tests := []struct {
		path string
		want bool
	}{
		{"/in/meeting.wav", true},
		{"/in/meeting.M4A", true},
		{"/in/meeting.mp4", true},
		{"/in/meeting.agenda", false},
		{"/in/notes.txt", false},
		{"/in/noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.isAudioFile(tt.path), tt.path)
	}
}

func TestWatcherDispatchesNewRecordings(t *testing.T) {
	dir := t.TempDir()

	var (
		mu   sync.Mutex
		seen []string
	)
	handled := make(chan struct{}, 4)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		handled <- struct{}{}
		return nil
	}

	w, err := New(dir, []string{"wav"}, handler, logger.NewNop(), 1)
	require.NoError(t, err)
	defer w.Stop()
	w.(*implWatcher).settleDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meeting.wav"), []byte("RIFF"), 0644))

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"meeting.wav"}, seen)
}

func TestWatcherDrainsInFlightOnCancel(t *testing.T) {
	dir := t.TempDir()

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	var finished atomic.Bool
	handler := func(_ context.Context, _ string) error {
		started <- struct{}{}
		<-release
		finished.Store(true)
		return nil
	}

	w, err := New(dir, []string{"wav"}, handler, logger.NewNop(), 1)
	require.NoError(t, err)
	defer w.Stop()
	w.(*implWatcher).settleDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.wav"), []byte("RIFF"), 0644))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	// the second recording waits for the only slot
	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.wav"), []byte("RIFF"), 0644))
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
		t.Fatal("Start returned while an analysis was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after the analysis finished")
	}
	assert.True(t, finished.Load())
	assert.Len(t, started, 0)
}
