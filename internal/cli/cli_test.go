package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yaklabco/mdpreview/internal/cli"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}

	cmd := cli.NewRootCommand(info)

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "mdpreview" {
		t.Errorf("expected Use to be 'mdpreview', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})

	expectedSubcommands := []string{"render", "watch", "normalize", "locate", "export", "init", "version"}

	for _, name := range expectedSubcommands {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})

	expected := map[string][]string{
		"render":    {"format", "jobs", "ignore", "width", "side-by-side", "strict", "no-detect", "compact", "no-summary", "follow-symlinks"},
		"watch":     {"width", "height", "cursor", "side-by-side", "strict", "no-detect", "debounce"},
		"normalize": {"check"},
		"locate":    {"offset", "row", "line", "page"},
		"export":    {"output", "flavor", "standalone", "title", "unsafe", "force", "outline"},
		"init":      {"force", "full", "format", "output"},
	}

	for name, flags := range expected {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("%s command not found: %v", name, err)
		}
		for _, flagName := range flags {
			if sub.Flags().Lookup(flagName) == nil {
				t.Errorf("expected flag %q to exist on %s command", flagName, name)
			}
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"mdpreview", "1.2.3", "abc123"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output %q does not contain %q", out.String(), want)
		}
	}
}

func TestRenderCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	renderCmd, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatalf("render command not found: %v", err)
	}

	if err := renderCmd.Args(renderCmd, []string{"file1.md", "file2.md", "docs/"}); err != nil {
		t.Errorf("render command should accept arbitrary args, got error: %v", err)
	}

	watchCmd, _, err := cmd.Find([]string{"watch"})
	if err != nil {
		t.Fatalf("watch command not found: %v", err)
	}
	if err := watchCmd.Args(watchCmd, []string{"a.md", "b.md"}); err == nil {
		t.Error("watch command should take exactly one file")
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{"nil result", nil, cli.ExitSuccess},
		{"clean run", &runner.Result{Stats: runner.Stats{FilesProcessed: 2}}, cli.ExitSuccess},
		{"failed file", &runner.Result{Stats: runner.Stats{FilesProcessed: 1, FilesErrored: 1}}, cli.ExitRenderErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cli.ExitCodeFromResult(tt.result); got != tt.want {
				t.Errorf("ExitCodeFromResult() = %d, want %d", got, tt.want)
			}
		})
	}
}

func runHelp(t *testing.T, args ...string) string {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	return out.String()
}

func TestHelpGroupsCommands(t *testing.T) {
	t.Parallel()

	help := runHelp(t, "--help")

	// Sections and their commands must appear in this order.
	order := []string{
		"Preview Commands:", "  locate", "  render", "  watch",
		"Utility Commands:", "  export", "  init", "  normalize",
		"Additional Commands:", "  version",
		"Flags:", "--color",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(help, want)
		if idx <= last {
			t.Fatalf("%q missing or out of order in help:\n%s", want, help)
		}
		last = idx
	}

	if strings.Contains(help, "\x1b[") {
		t.Error("help written with --color never contains escape codes")
	}
}

func TestHelpSubcommandFlags(t *testing.T) {
	t.Parallel()

	help := runHelp(t, "render", "--help")

	for _, want := range []string{"Usage:", "mdpreview render", "Flags:", "--side-by-side", "Global Flags:", "--color"} {
		if !strings.Contains(help, want) {
			t.Errorf("render help does not contain %q:\n%s", want, help)
		}
	}
	if strings.Contains(help, "Preview Commands:") {
		t.Error("leaf command help should not list command groups")
	}
}
