package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/internal/cli"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/fsutil"
	"github.com/yaklabco/mdpreview/pkg/reporter"
)

const testMarkdown = "# Title\n\nSome **bold** text"

func writeMarkdown(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestIntegration_Render(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", testMarkdown)

	out, err := execute(t, "", "render", "--no-summary", mdFile)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nSome bold text\n", out)

	out, err = execute(t, "", "render", mdFile)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Rendered 1 file: 2 blocks, 2 rows\n"), out)
}

func TestIntegration_RenderFormats(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", testMarkdown)

	out, err := execute(t, "", "render", "--format", "rows", "--width", "80", mdFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ROW")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Some bold text")

	out, err = execute(t, "", "render", "--format", "json", mdFile)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Files, 1)
	assert.Len(t, output.Files[0].Rows, 2)
	assert.Equal(t, 1, output.Summary.FilesRendered)

	_, err = execute(t, "", "render", "--format", "xml", mdFile)
	require.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestIntegration_RenderDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drafts", "b.md"), []byte("# B"), 0o644))

	out, err := execute(t, "", "render", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "a.md (1 rows)")
	assert.Contains(t, out, "b.md (1 rows)")
	assert.Contains(t, out, "Rendered 2 files")

	out, err = execute(t, "", "render", "--ignore", "drafts", dir)
	require.NoError(t, err)
	assert.Equal(t, "# A\nRendered 1 file: 1 block, 1 row\n", out)
}

func TestIntegration_RenderConfigFile(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", testMarkdown)
	cfgFile := writeMarkdown(t, ".mdpreview.yml", "output:\n  format: rows\n")

	out, err := execute(t, "", "render", "--config", cfgFile, mdFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ROW")

	badCfg := writeMarkdown(t, ".mdpreview.yml", "output:\n  format: xml\n")
	_, err = execute(t, "", "render", "--config", badCfg, mdFile)
	require.ErrorIs(t, err, cli.ErrConfig)
}

func TestIntegration_Normalize(t *testing.T) {
	t.Parallel()

	messy := writeMarkdown(t, "messy.md", "a \r\n\r\n\r\nb\r\n")
	clean := writeMarkdown(t, "clean.md", "a\n\nb")

	out, err := execute(t, "", "normalize", messy)
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", out)

	_, err = execute(t, "", "normalize", "--check", messy)
	require.ErrorIs(t, err, cli.ErrNotCanonical)

	_, err = execute(t, "", "normalize", "--check", clean)
	require.NoError(t, err)

	out, err = execute(t, "", "normalize", messy, clean)
	require.NoError(t, err)
	assert.Equal(t, "unchanged: reparse skipped\n", out)

	out, err = execute(t, "a\n\nc", "normalize", messy, "-")
	require.NoError(t, err)
	assert.Equal(t, "changed: reparse needed\n", out)

	_, err = execute(t, "", "normalize", filepath.Join(t.TempDir(), "missing.md"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestIntegration_Locate(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", "# Title\n\nSome text")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "offset",
			args: []string{"--offset", "12"},
			want: "offset 12 (line 3, column 4) -> row 1\n  Paragraph content: \"Some text\"\n" +
				"  element: Paragraph > Text [9:18]\n",
		},
		{
			name: "line and column",
			args: []string{"--line", "1:3"},
			want: "offset 2 (line 1, column 3) -> row 0\n  Heading content: \"Title\"\n" +
				"  element: Heading > Text [2:7]\n",
		},
		{
			name: "offset between blocks",
			args: []string{"--offset", "8"},
			want: "offset 8 (line 2, column 1) -> row 0\n  Heading content: \"Title\"\n",
		},
		{
			name: "row",
			args: []string{"--row", "1"},
			want: "row 1 -> offset 9 (line 3, column 1)\n  Paragraph content: \"Some text\"\n",
		},
		{
			name: "page clamps",
			args: []string{"--row", "0", "--page", "10"},
			want: "row 1 -> offset 9 (line 3, column 1)\n  Paragraph content: \"Some text\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, "", append([]string{"locate", mdFile}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := execute(t, "", "locate", mdFile)
	require.ErrorIs(t, err, cli.ErrLocateQuery)

	_, err = execute(t, "", "locate", mdFile, "--row", "1", "--offset", "2")
	require.ErrorIs(t, err, cli.ErrLocateQuery)

	_, err = execute(t, "", "locate", mdFile, "--line", "9")
	require.Error(t, err)
}

func TestIntegration_Export(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", "# Title\n\n## Part\n\ntext")

	out, err := execute(t, "", "export", mdFile)
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.NotContains(t, out, "<html")

	out, err = execute(t, "", "export", "--outline", mdFile)
	require.NoError(t, err)
	assert.Equal(t, "Title #title\n  Part #part\n", out)

	htmlFile := filepath.Join(t.TempDir(), "doc.html")
	_, err = execute(t, "", "export", "--standalone", "-o", htmlFile, mdFile)
	require.NoError(t, err)
	content, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<title>Title</title>")

	// Same content again is a no-op; different content needs --force.
	_, err = execute(t, "", "export", "--standalone", "-o", htmlFile, mdFile)
	require.NoError(t, err)

	_, err = execute(t, "", "export", "-o", htmlFile, mdFile)
	require.ErrorIs(t, err, fsutil.ErrExists)

	_, err = execute(t, "", "export", "--force", "-o", htmlFile, mdFile)
	require.NoError(t, err)

	_, err = execute(t, "", "export", "--flavor", "wiki", mdFile)
	require.Error(t, err)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	cfgFile := filepath.Join(t.TempDir(), ".mdpreview.yml")

	_, err := execute(t, "", "init", "--output", cfgFile)
	require.NoError(t, err)

	cfg, err := config.FromYAML(mustRead(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, config.OpenPreviewToSide, cfg.OpenMode)

	_, err = execute(t, "", "init", "--output", cfgFile)
	require.NoError(t, err, "unchanged template")

	_, err = execute(t, "", "init", "--full", "--output", cfgFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "", "init", "--full", "--force", "--output", cfgFile)
	require.NoError(t, err)

	// The generated file is a valid config.
	mdFile := writeMarkdown(t, "doc.md", testMarkdown)
	_, err = execute(t, "", "render", "--config", cfgFile, mdFile)
	require.NoError(t, err)

	_, err = execute(t, "", "init", "--format", "toml", "--output", cfgFile)
	require.Error(t, err)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return content
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIntegration_Watch(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, "doc.md", testMarkdown)

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--color", "never", "watch", "--debounce", "10ms", mdFile})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "(generation 1, 2 rows)\n# Title\nSome bold text\n")
	}, 5*time.Second, 10*time.Millisecond)

	// Keep saving until the watcher has picked the file up.
	require.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(mdFile, []byte(testMarkdown+"\n\n- item"), 0o644))
		return strings.Contains(out.String(), "(generation 2, 3 rows)")
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, out.String(), "- item\n")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestIntegration_WatchOpenModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		args []string
		want []string
	}{
		{
			name: "preview",
			file: "doc.md",
			args: []string{"--open-mode", "preview"},
			want: []string{"(generation 1, 2 rows)\n# Title\nSome bold text\n"},
		},
		{
			name: "code",
			file: "doc.md",
			args: []string{"--open-mode", "code"},
			want: []string{"(generation 1, 2 rows)\n# Title\n\nSome **bold** text\n"},
		},
		{
			name: "preview to side",
			file: "doc.md",
			args: []string{"--open-mode", "preview-to-side"},
			want: []string{"\n1 # Title", "│ # Title\n", "\n3 Some **bold** text", "│ Some bold text\n"},
		},
		{
			name: "not markdown",
			file: "doc.txt",
			args: []string{"--open-mode", "preview"},
			want: []string{"(generation 1, 2 rows)\n# Title\n\nSome **bold** text\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeMarkdown(t, tt.file, testMarkdown)

			cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
			out := &syncBuffer{}
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(append([]string{"--color", "never", "watch", "--width", "60", path}, tt.args...))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- cmd.ExecuteContext(ctx) }()

			require.Eventually(t, func() bool {
				for _, want := range tt.want {
					if !strings.Contains(out.String(), want) {
						return false
					}
				}
				return true
			}, 5*time.Second, 10*time.Millisecond)

			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("watch did not stop")
			}
		})
	}

	_, err := execute(t, "", "watch", "--open-mode", "split", writeMarkdown(t, "x.md", "x"))
	require.ErrorIs(t, err, config.ErrInvalidValue)
}
