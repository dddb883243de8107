package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdpreview/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.html")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("<p>x</p>"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != "<p>x</p>" {
			t.Errorf("content = %q", got)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %o, want %o", info.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.html")
		for range 3 {
			if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o600); err != nil {
				t.Fatalf("WriteAtomic() error = %v", err)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), ".tmp.") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "out.html")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "out.html")
		if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0); !errors.Is(err, context.Canceled) {
			t.Errorf("WriteAtomic() error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file written despite cancellation")
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		existing    *string
		content     string
		overwrite   bool
		wantWritten bool
		wantErr     error
		wantContent string
	}{
		{"new file", nil, "new", false, true, nil, "new"},
		{"identical content", ptr("same"), "same", false, false, nil, "same"},
		{"refuses overwrite", ptr("old"), "new", false, false, fsutil.ErrExists, "old"},
		{"overwrites", ptr("old"), "new", true, true, nil, "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ".mdpreview.yml")
			if tt.existing != nil {
				if err := os.WriteFile(path, []byte(*tt.existing), 0o600); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			written, err := fsutil.WriteFile(context.Background(), path, []byte(tt.content),
				fsutil.WriteOptions{Overwrite: tt.overwrite})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WriteFile() error = %v, want %v", err, tt.wantErr)
			}
			if written != tt.wantWritten {
				t.Errorf("written = %v, want %v", written, tt.wantWritten)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}

			if tt.existing != nil && tt.wantWritten {
				info, err := os.Stat(path)
				if err != nil {
					t.Fatalf("stat: %v", err)
				}
				if info.Mode().Perm() != 0o600 {
					t.Errorf("mode = %o, want existing mode 600", info.Mode().Perm())
				}
			}
		})
	}
}

func ptr(s string) *string { return &s }
