package filehost_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/internal/filehost"
	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/fsutil"
	"github.com/yaklabco/mdpreview/pkg/preview"
)

var _ preview.Editor = (*filehost.File)(nil)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func openFile(t *testing.T, content string) (*filehost.File, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, path, content)

	ctx := logging.WithLogger(context.Background(), logging.Discard())
	f, err := filehost.Open(ctx, path, filehost.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	return f, path
}

type changes struct {
	mu    sync.Mutex
	texts []string
}

func (c *changes) record(text []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, string(text))
}

func (c *changes) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.texts) == 0 {
		return ""
	}
	return c.texts[len(c.texts)-1]
}

func TestOpen(t *testing.T) {
	t.Parallel()

	f, path := openFile(t, "# Title")
	assert.Equal(t, path, f.Path())
	assert.Equal(t, "# Title", string(f.BufferText()))
	assert.Equal(t, 0, f.CursorOffset())

	_, err := filehost.Open(context.Background(), filepath.Join(t.TempDir(), "missing.md"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestFile_Cursor(t *testing.T) {
	t.Parallel()

	f, _ := openFile(t, "0123456789")

	var scrolled []int
	f.OnScroll(func(offset int) { scrolled = append(scrolled, offset) })

	f.SetCursor(4)
	assert.Equal(t, 4, f.CursorOffset())

	f.ScrollEditorToOffset(50)
	f.ScrollEditorToOffset(-3)
	assert.Equal(t, []int{10, 0}, scrolled)
	assert.Equal(t, 0, f.CursorOffset())
}

func TestFile_Reload(t *testing.T) {
	t.Parallel()

	f, path := openFile(t, "one")
	got := &changes{}
	f.OnBufferChanged(got.record)
	f.SetCursor(3)

	changed, err := f.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file")

	now := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, now, now))
	changed, err = f.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "touch only")

	writeFile(t, path, "tw")
	changed, err = f.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "tw", string(f.BufferText()))
	assert.Equal(t, "tw", got.last())
	assert.Equal(t, 2, f.CursorOffset(), "cursor clamped to new content")

	require.NoError(t, os.Remove(path))
	_, err = f.Reload(context.Background())
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	assert.Equal(t, "tw", string(f.BufferText()), "last good content kept")
}

func startWatch(t *testing.T, f *filehost.File) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Watch(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})
}

func TestFile_Watch(t *testing.T) {
	t.Parallel()

	f, path := openFile(t, "first")
	got := &changes{}
	f.OnBufferChanged(got.record)
	startWatch(t, f)

	// The watch is registered asynchronously; keep writing until it is seen.
	require.Eventually(t, func() bool {
		writeFile(t, path, "second")
		return got.last() == "second"
	}, 5*time.Second, 50*time.Millisecond)

	tmp := path + ".tmp"
	writeFile(t, tmp, "third")
	require.NoError(t, os.Rename(tmp, path))
	require.Eventually(t, func() bool {
		return got.last() == "third"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFile_WatchTwice(t *testing.T) {
	t.Parallel()

	f, path := openFile(t, "x")
	got := &changes{}
	f.OnBufferChanged(got.record)
	startWatch(t, f)

	require.Eventually(t, func() bool {
		writeFile(t, path, "y")
		return got.last() == "y"
	}, 5*time.Second, 50*time.Millisecond)

	require.ErrorIs(t, f.Watch(context.Background()), filehost.ErrWatching)
}

func TestFile_DrivesController(t *testing.T) {
	t.Parallel()

	f, path := openFile(t, "# Title")
	c := preview.New(*config.NewConfig(),
		preview.WithLogger(logging.Discard()),
		preview.WithEditor(f))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = c.Run(ctx) }()
	startWatch(t, f)

	require.Eventually(t, func() bool {
		writeFile(t, path, "# Title\n\nSome text")
		return len(c.RenderNodes()) == 2
	}, 5*time.Second, 50*time.Millisecond)

	c.PreviewScrolled(1)
	require.Eventually(t, func() bool {
		return f.CursorOffset() == 9
	}, 5*time.Second, 10*time.Millisecond)
}
