// Package watcher reports chat exports that appear, change or disappear in a
// directory using OS-level notifications.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/chatlens/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before its event is emitted.
// Exports are usually written in several chunks.
const DefaultDebounce = 500 * time.Millisecond

// Kind describes what happened to a watched file.
type Kind string

const (
	// Changed means the file was created or written.
	Changed Kind = "changed"

	// Removed means the file was deleted or renamed away.
	Removed Kind = "removed"
)

// Event is a debounced change to a chat export.
type Event struct {
	Path string
	Kind Kind
}

// Watcher monitors one directory for chat exports.
type Watcher struct {
	fsw        *fsnotify.Watcher
	dir        string
	extensions map[string]struct{}
	debounce   time.Duration

	// Events receives debounced events. It is closed when Start returns.
	Events chan Event
}

// New creates a watcher for dir that reports files with one of the given
// extensions. An empty extension list reports every file.
func New(dir string, extensions []string) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Watcher{
		fsw:        fsw,
		dir:        abs,
		extensions: exts,
		debounce:   DefaultDebounce,
		Events:     make(chan Event, 64),
	}, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// SetDebounce sets the quiet period. Zero emits events immediately.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d < 0 {
		d = 0
	}
	w.debounce = d
}

// Start forwards events until ctx is cancelled. It blocks.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	pending := make(map[string]pendingEvent)

	var tick <-chan time.Time
	if w.debounce > 0 {
		ticker := time.NewTicker(w.debounce / 2)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(ev)
			if change == nil {
				continue
			}
			if w.debounce == 0 {
				if !w.emit(ctx, *change) {
					return
				}
				continue
			}
			pending[change.Path] = pendingEvent{event: *change, at: time.Now()}
		case now := <-tick:
			for path, p := range pending {
				if now.Sub(p.at) < w.debounce {
					continue
				}
				delete(pending, path)
				if !w.emit(ctx, p.event) {
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

type pendingEvent struct {
	event Event
	at    time.Time
}

func (w *Watcher) emit(ctx context.Context, ev Event) bool {
	select {
	case w.Events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// handleFsEvent maps a raw notification to an export event, or nil when the
// path is hidden, a directory, an unsupported file or the op is irrelevant.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) *Event {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return nil
	}
	if !w.accepts(ev.Name) {
		return nil
	}

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return &Event{Path: ev.Name, Kind: Removed}
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(ev.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		return &Event{Path: ev.Name, Kind: Changed}
	default:
		return nil
	}
}

func (w *Watcher) accepts(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
