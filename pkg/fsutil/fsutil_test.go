package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/mdpreview/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "# Title\n")

		got, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "# Title\n" {
			t.Errorf("content = %q", got)
		}
		if info.Path != path || info.Size != 8 || info.Mode.Perm() != 0o644 {
			t.Errorf("info = %+v", info)
		}
		if !info.SameContent(got) {
			t.Error("SameContent(read content) = false")
		}
	})

	errorCases := []struct {
		name string
		path func(dir string) string
		want error
	}{
		{"missing file", func(dir string) string { return filepath.Join(dir, "missing.md") }, fsutil.ErrNotFound},
		{"directory", func(dir string) string { return dir }, fsutil.ErrIsDirectory},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := fsutil.ReadFile(context.Background(), tc.path(t.TempDir()))
			if !errors.Is(err, tc.want) {
				t.Errorf("ReadFile() error = %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "irrelevant")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ReadFile() error = %v, want context.Canceled", err)
		}
	})
}

func TestChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, path string)
		want   bool
	}{
		{"untouched", func(*testing.T, string) {}, false},
		{"touched without edit", func(t *testing.T, path string) {
			future := time.Now().Add(time.Hour)
			if err := os.Chtimes(path, future, future); err != nil {
				t.Fatalf("chtimes: %v", err)
			}
		}, false},
		{"same size edit", func(t *testing.T, path string) { writeFile(t, path, "# Tilde\n") }, true},
		{"size change", func(t *testing.T, path string) { writeFile(t, path, "# Title\n\nmore\n") }, true},
		{"deleted", func(t *testing.T, path string) {
			if err := os.Remove(path); err != nil {
				t.Fatalf("remove: %v", err)
			}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "doc.md")
			writeFile(t, path, "# Title\n")

			_, info, err := fsutil.ReadFile(context.Background(), path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}

			tt.mutate(t, path)

			got, err := fsutil.Changed(context.Background(), info)
			if err != nil {
				t.Fatalf("Changed() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.Changed(context.Background(), nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("Changed(nil) error = %v, want ErrNilFileInfo", err)
		}
	})
}

func TestFileInfo_SameContent(t *testing.T) {
	t.Parallel()

	var nilInfo *fsutil.FileInfo
	if nilInfo.SameContent(nil) {
		t.Error("nil FileInfo matched")
	}

	path := filepath.Join(t.TempDir(), "empty.md")
	writeFile(t, path, "")
	_, info, err := fsutil.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !info.SameContent(nil) {
		t.Error("empty file does not match empty content")
	}
	if info.SameContent([]byte("x")) {
		t.Error("empty file matches non-empty content")
	}
}
