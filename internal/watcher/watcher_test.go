package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestNew_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{".txt", ".CSV"})
	require.NoError(t, err)
	defer w.fsw.Close()

	existing := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(existing, []byte("content"), 0o644))
	upper := filepath.Join(dir, "EXPORT.CSV")
	require.NoError(t, os.WriteFile(upper, []byte("content"), 0o644))
	hidden := filepath.Join(dir, ".chat.txt")
	require.NoError(t, os.WriteFile(hidden, []byte("content"), 0o644))
	subdir := filepath.Join(dir, "nested.txt")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected *Event
	}{
		{"create file", existing, fsnotify.Create, &Event{Path: existing, Kind: Changed}},
		{"write file", existing, fsnotify.Write, &Event{Path: existing, Kind: Changed}},
		{"extension case-insensitive", upper, fsnotify.Write, &Event{Path: upper, Kind: Changed}},
		{"remove file", filepath.Join(dir, "gone.txt"), fsnotify.Remove, &Event{Path: filepath.Join(dir, "gone.txt"), Kind: Removed}},
		{"rename file", filepath.Join(dir, "old.txt"), fsnotify.Rename, &Event{Path: filepath.Join(dir, "old.txt"), Kind: Removed}},
		{"chmod ignored", existing, fsnotify.Chmod, nil},
		{"hidden file skipped", hidden, fsnotify.Write, nil},
		{"directory skipped", subdir, fsnotify.Create, nil},
		{"unsupported extension", filepath.Join(dir, "photo.jpg"), fsnotify.Create, nil},
		{"write to vanished file", filepath.Join(dir, "vanished.txt"), fsnotify.Write, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHandleFsEvent_NoExtensionsAcceptsAll(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.fsw.Close()

	path := filepath.Join(dir, "anything.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.NotNil(t, w.handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Create}))
}

func TestStart_EmitsDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{".txt"})
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("[1/15/2025, 10:30:00] Alice: hi\n"), 0o644))

	select {
	case ev := <-w.Events:
		assert.Equal(t, Changed, ev.Kind)
		assert.Equal(t, filepath.Base(path), filepath.Base(ev.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestStart_ClosesEventsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	_, ok := <-w.Events
	assert.False(t, ok)
}
