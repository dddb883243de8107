// Package filehost backs a preview editor with a file on disk. Saves made by
// any program show up as buffer changes; scroll requests move a virtual
// cursor that the host can display.
package filehost

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/fsutil"
)

// ErrWatching is returned by Watch when the file is already being watched.
var ErrWatching = errors.New("file already watched")

// Option configures a File.
type Option func(*File)

// WithDebounce sets the quiet period between a write event and the reload.
func WithDebounce(d time.Duration) Option {
	return func(f *File) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// File is an editor over a file on disk.
type File struct {
	path     string
	debounce time.Duration
	logger   *log.Logger

	mu        sync.Mutex
	text      []byte
	info      *fsutil.FileInfo
	cursor    int
	watching  bool
	listeners []func([]byte)
	scrolls   []func(offset int)
}

// Open reads path and returns a File holding its content. The File logs
// through the logger carried by ctx.
func Open(ctx context.Context, path string, opts ...Option) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	f := &File{
		path:     abs,
		debounce: config.DefaultDebounce,
		logger:   logging.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(f)
	}

	content, info, err := fsutil.ReadFile(ctx, abs)
	if err != nil {
		return nil, err
	}
	f.text = content
	f.info = info
	return f, nil
}

// Path returns the absolute file path.
func (f *File) Path() string {
	return f.path
}

// BufferText returns the content of the last successful read.
func (f *File) BufferText() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// CursorOffset returns the virtual cursor.
func (f *File) CursorOffset() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// SetCursor moves the virtual cursor, clamped to the buffer.
func (f *File) SetCursor(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = max(0, min(offset, len(f.text)))
}

// OnBufferChanged registers fn to receive the full text after each reload
// that changed the content.
func (f *File) OnBufferChanged(fn func(text []byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// OnScroll registers fn to run when the preview asks the editor to scroll.
func (f *File) OnScroll(fn func(offset int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls = append(f.scrolls, fn)
}

// ScrollEditorToOffset moves the cursor to offset and notifies OnScroll
// callbacks.
func (f *File) ScrollEditorToOffset(offset int) {
	f.SetCursor(offset)

	f.mu.Lock()
	offset = f.cursor
	scrolls := slices.Clone(f.scrolls)
	f.mu.Unlock()

	for _, fn := range scrolls {
		fn(offset)
	}
}

// Reload reads the file again and notifies listeners when the content
// changed. It reports whether it did.
func (f *File) Reload(ctx context.Context) (bool, error) {
	f.mu.Lock()
	info := f.info
	f.mu.Unlock()

	changed, err := fsutil.Changed(ctx, info)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	content, info, err := fsutil.ReadFile(ctx, f.path)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	f.text = content
	f.info = info
	f.cursor = min(f.cursor, len(content))
	listeners := slices.Clone(f.listeners)
	f.mu.Unlock()

	f.logger.Debug("file reloaded", logging.FieldBytes, len(content))

	for _, fn := range listeners {
		fn(content)
	}
	return true, nil
}

// Watch reloads the file after each burst of writes until ctx is done.
// The parent directory is watched so saves that replace the file through a
// rename are seen too. Watch returns nil once ctx is cancelled.
func (f *File) Watch(ctx context.Context) error {
	f.mu.Lock()
	if f.watching {
		f.mu.Unlock()
		return ErrWatching
	}
	f.watching = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.watching = false
		f.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	f.logger.Debug("watching file")

	timer := time.NewTimer(f.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !f.relevant(event) {
				continue
			}
			timer.Reset(f.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			if _, err := f.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// The file may be mid-replace; the next event retries.
				f.logger.Debug("reload failed", logging.FieldError, err)
			}
		}
	}
}

// relevant reports whether event touches the watched file's content.
func (f *File) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != f.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
