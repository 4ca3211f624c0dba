// Package tailer follows a growing log file and delivers complete lines.
package tailer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
)

// EventType defines the type of tailer event.
type EventType int

const (
	// EventLines carries newly appended complete lines.
	EventLines EventType = iota
	// EventTruncated reports that the file shrank or was replaced and is
	// being read again from the start.
	EventTruncated
	// EventError reports a watch or read failure.
	EventError
)

// Event is emitted by a running Tailer.
type Event struct {
	Type  EventType
	Path  string
	Lines []string
	Error error
}

const debounceInterval = 50 * time.Millisecond

// Tailer reads lines appended to one file. A trailing line without a
// newline is held back until it is completed.
type Tailer struct {
	mu      sync.Mutex
	path    string
	offset  int64
	partial []byte

	watcher   *fsnotify.Watcher
	eventChan chan Event
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New creates a tailer for path. With skipExisting the current content is
// never delivered. The file need not exist yet but its directory must.
func New(path string, skipExisting bool) (*Tailer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("failed to watch %s: directory %s not found", path, dir)
	}

	t := &Tailer{
		path:      abs,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if skipExisting {
		if info, err := os.Stat(abs); err == nil {
			t.offset = info.Size()
		}
	}

	return t, nil
}

// Path returns the absolute path being followed.
func (t *Tailer) Path() string {
	return t.path
}

// Events returns the channel of events produced after Start.
func (t *Tailer) Events() <-chan Event {
	return t.eventChan
}

// ReadNew returns the complete lines appended since the previous call. The
// truncated result is true when the file was found shorter than the read
// offset and reading restarted from the beginning.
func (t *Tailer) ReadNew() (lines []string, truncated bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat %s: %w", t.path, err)
	}

	if info.Size() < t.offset {
		t.offset = 0
		t.partial = nil
		truncated = true
	}
	if info.Size() == t.offset {
		return nil, truncated, nil
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, truncated, fmt.Errorf("failed to seek %s: %w", t.path, err)
	}
	chunk, err := io.ReadAll(io.LimitReader(f, info.Size()-t.offset))
	if err != nil {
		return nil, truncated, fmt.Errorf("failed to read %s: %w", t.path, err)
	}
	t.offset += int64(len(chunk))

	return t.splitLines(chunk), truncated, nil
}

// splitLines joins chunk to any held back partial line and returns the
// complete lines. Must be called with mu held.
func (t *Tailer) splitLines(chunk []byte) []string {
	data := append(t.partial, chunk...)
	last := bytes.LastIndexByte(data, '\n')
	if last < 0 {
		t.partial = data
		return nil
	}

	t.partial = append([]byte(nil), data[last+1:]...)
	complete := string(data[:last])

	lines := strings.Split(complete, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Start begins watching the file's directory for changes.
func (t *Tailer) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	t.watcher = watcher

	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return fmt.Errorf("failed to watch %s: %w", t.path, err)
	}

	go t.watchLoop()
	return nil
}

// watchLoop turns file system events into reads. Writes are debounced and
// every read happens on this goroutine, so lines are delivered in file order.
func (t *Tailer) watchLoop() {
	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != t.path {
				continue
			}

			switch {
			case event.Op&fsnotify.Create != 0:
				// A new file at our path is read from the start.
				t.mu.Lock()
				t.offset = 0
				t.partial = nil
				t.mu.Unlock()
				t.sendEvent(Event{Type: EventTruncated, Path: t.path})
				debounce.Reset(debounceInterval)
			case event.Op&fsnotify.Write != 0:
				debounce.Reset(debounceInterval)
			}

		case <-debounce.C:
			t.readAndSend()

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.sendEvent(Event{Type: EventError, Path: t.path, Error: err})

		case <-t.stopChan:
			return
		}
	}
}

func (t *Tailer) readAndSend() {
	lines, truncated, err := t.ReadNew()
	if truncated {
		t.sendEvent(Event{Type: EventTruncated, Path: t.path})
	}
	if err != nil {
		t.sendEvent(Event{Type: EventError, Path: t.path, Error: err})
		return
	}
	if len(lines) > 0 {
		t.sendEvent(Event{Type: EventLines, Path: t.path, Lines: lines})
	}
}

// sendEvent sends an event without blocking. Line events are never
// dropped: when the channel is full the sender waits or gives up on stop.
func (t *Tailer) sendEvent(event Event) {
	if event.Type == EventLines {
		select {
		case t.eventChan <- event:
		case <-t.stopChan:
		}
		return
	}

	select {
	case t.eventChan <- event:
	default:
		logger.Warn("Tailer event dropped", "path", t.path, "type", event.Type)
	}
}

// Close stops watching. It is safe to call more than once.
func (t *Tailer) Close() error {
	var err error
	t.stopOnce.Do(func() {
		close(t.stopChan)

		if t.watcher != nil {
			err = t.watcher.Close()
		}
	})
	return err
}
