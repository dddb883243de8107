package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yaklabco/mdpreview/pkg/runner"
)

// writeTree creates each file under dir with a small Markdown body.
func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# "+f+"\n\nbody\n"), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func relAll(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := []string{
		"readme.md",
		"CHANGELOG.MD",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/draft/wip.md",
		"vendor/lib/readme.md",
		"node_modules/pkg/readme.md",
		".hidden/secret.md",
		".notes.md",
		"src/main.go",
		"notes.txt",
	}

	tests := []struct {
		name       string
		paths      []string
		extensions []string
		ignore     []string
		want       []string
	}{
		{
			name: "walks directory",
			want: []string{
				"CHANGELOG.MD", "docs/api.markdown", "docs/draft/wip.md", "docs/guide.md",
				"node_modules/pkg/readme.md", "readme.md", "vendor/lib/readme.md",
			},
		},
		{
			name:   "ignores directories and base names",
			ignore: []string{"vendor/**", "node_modules", "*.markdown"},
			want:   []string{"CHANGELOG.MD", "docs/draft/wip.md", "docs/guide.md", "readme.md"},
		},
		{
			name:   "single star stays in one segment",
			paths:  []string{"docs"},
			ignore: []string{"docs/*.md"},
			want:   []string{"docs/api.markdown", "docs/draft/wip.md"},
		},
		{
			name:   "double star crosses segments",
			paths:  []string{"docs"},
			ignore: []string{"docs/**/*.md"},
			want:   []string{"docs/api.markdown", "docs/guide.md"},
		},
		{
			name:       "custom extensions",
			extensions: []string{".txt"},
			want:       []string{"notes.txt"},
		},
		{
			name:  "explicit hidden file",
			paths: []string{".hidden/secret.md", "readme.md", "./readme.md"},
			want:  []string{".hidden/secret.md", "readme.md"},
		},
		{
			name:  "explicit file with other extension",
			paths: []string{"notes.txt"},
			want:  []string{},
		},
		{
			name:  "overlapping paths deduplicate",
			paths: []string{"docs", "docs/draft", "docs/guide.md"},
			want:  []string{"docs/api.markdown", "docs/draft/wip.md", "docs/guide.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeTree(t, dir, tree...)

			files, err := runner.Discover(context.Background(), runner.Options{
				Paths:      tt.paths,
				WorkingDir: dir,
				Extensions: tt.extensions,
				Ignore:     tt.ignore,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			got := relAll(t, dir, files)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Discover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscover_InvalidIgnore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Ignore:     []string{"[unclosed"},
	})
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Discover() error = %v, want ErrNotExist", err)
	}
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Discover() error = %v, want context.Canceled", err)
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "docs/real.md", "outside/linked.md")

	if err := os.Symlink(filepath.Join(dir, "outside"), filepath.Join(dir, "docs", "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A loop back to docs must not recurse forever.
	if err := os.Symlink(filepath.Join(dir, "docs"), filepath.Join(dir, "outside", "back")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tests := []struct {
		name   string
		follow bool
		want   []string
	}{
		{"not followed", false, []string{"docs/real.md"}},
		{"followed", true, []string{"docs/real.md", "outside/linked.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := runner.Discover(context.Background(), runner.Options{
				Paths:          []string{"docs"},
				WorkingDir:     dir,
				FollowSymlinks: tt.follow,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			got := relAll(t, dir, files)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Discover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIgnore(t *testing.T) {
	t.Parallel()

	ig, err := runner.CompileIgnore([]string{"build/**", "*.tmp.md", "docs/*/draft.md", " "})
	if err != nil {
		t.Fatalf("CompileIgnore() error = %v", err)
	}
	if ig.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ig.Len())
	}

	files := []struct {
		path string
		want bool
	}{
		{"build/out.md", true},
		{"build/a/b.md", true},
		{"notes.tmp.md", true},
		{"deep/dir/notes.tmp.md", true},
		{"docs/v1/draft.md", true},
		{"docs/v1/v2/draft.md", false},
		{"readme.md", false},
		{"rebuild/out.md", false},
	}
	for _, f := range files {
		if got := ig.MatchFile(f.path); got != f.want {
			t.Errorf("MatchFile(%q) = %v, want %v", f.path, got, f.want)
		}
	}

	if !ig.MatchDir("build") {
		t.Error("MatchDir(build) = false, want true")
	}
	if ig.MatchDir("docs") {
		t.Error("MatchDir(docs) = true, want false")
	}

	var empty *runner.Ignore
	if empty.MatchFile("a.md") || empty.MatchDir("a") {
		t.Error("nil Ignore matched")
	}
}
