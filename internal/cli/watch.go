package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdpreview/internal/filehost"
	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/internal/ui/pretty"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/preview"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// clearScreen homes the cursor and clears a terminal.
const clearScreen = "\x1b[H\x1b[2J"

type watchFlags struct {
	width    int
	height   int
	cursor   int
	noDetect bool
	debounce string
	openMode string
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Keep a live preview of a Markdown file",
		Long: `Watch a Markdown file and repaint its preview after every save.

Edits that only change whitespace or line endings are detected and skip the
reparse. The preview window follows the cursor offset given with --cursor.

What gets painted follows open_mode: preview_to_side shows the source next
to the preview, preview shows the preview alone and code shows the source
alone. The configured mode applies when --open-mode is given or auto_open
covers the file; otherwise watch paints the preview alone. Files that are
not Markdown are always shown as source.

Examples:
  mdpreview watch README.md
  mdpreview watch README.md --height 30 --cursor 1200
  mdpreview watch notes.md --side-by-side --debounce 300ms
  mdpreview watch notes.md --open-mode code`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().IntVar(&flags.width, "width", 0, "output width in columns (0 = terminal width)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "rows shown per repaint (0 = all)")
	cmd.Flags().IntVar(&flags.cursor, "cursor", 0, "byte offset the preview follows")
	cmd.Flags().BoolVar(&cfg.SideBySide, "side-by-side", false, "print the source next to the preview")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on span invariant violations instead of repairing them")
	cmd.Flags().BoolVar(&flags.noDetect, "no-detect", false, "do not label unlabelled code blocks")
	cmd.Flags().StringVar(&flags.debounce, "debounce", "", "quiet period after a save before reparsing (default from config)")
	cmd.Flags().StringVar(&flags.openMode, "open-mode", "", "what to paint: code, preview or preview_to_side (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, cliCfg *config.Config, flags *watchFlags) error {
	requested := cmd.Flags().Changed("open-mode")
	if requested {
		mode, err := config.ParseOpenMode(flags.openMode)
		if err != nil {
			return err
		}
		cliCfg.OpenMode = mode
	}

	if flags.debounce != "" {
		d, err := time.ParseDuration(flags.debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce %q: %w", flags.debounce, err)
		}
		cliCfg.Watch.Debounce = d
	}
	cliCfg.Output.Width = flags.width

	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	if flags.noDetect {
		cfg.LanguageDetection = false
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, logger := logging.WithPath(ctx, path)

	file, err := filehost.Open(ctx, path, filehost.WithDebounce(cfg.Watch.Debounce))
	if err != nil {
		return err
	}
	file.SetCursor(flags.cursor)
	file.OnScroll(func(offset int) {
		logger.Debug("editor scrolled", logging.FieldOffset, offset)
	})

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Output.Color, out))
	mode := paneMode(cfg, path, requested)
	pane := newTermPane(out, styles, pretty.TerminalWidth(cfg.Output.Width, out), flags.height, mode)

	ctrl := preview.New(*cfg,
		preview.WithLogger(logger),
		preview.WithPreviewPane(pane))
	ctrl.OnGenerationPublished(func(gen *preview.Generation) {
		pane.show(file.Path(), gen)
		// Held until the controller settles, then replayed.
		ctrl.EditorCursorMoved(file.CursorOffset())
	})
	ctrl.Attach(file)

	logger.Debug("watching",
		logging.FieldOpenMode, mode,
		logging.FieldDebounce, cfg.Watch.Debounce)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error { return file.Watch(gctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// paneMode picks what watch paints for path. --side-by-side always wins
// for Markdown; otherwise the configured mode applies when it was asked for
// or auto open covers path.
func paneMode(cfg *config.Config, path string, requested bool) config.OpenMode {
	switch {
	case !config.IsMarkdownFile(path):
		return config.OpenCode
	case cfg.SideBySide:
		return config.OpenPreviewToSide
	case requested || cfg.ShouldOpenPreview(path):
		return cfg.OpenMode
	default:
		return config.OpenPreview
	}
}

// termPane paints a window of the current generation to a writer.
type termPane struct {
	out        io.Writer
	painter    *pretty.Painter
	styles     *pretty.Styles
	height     int
	mode       config.OpenMode
	clearFirst bool

	mu    sync.Mutex
	path  string
	id    uint64
	doc   *mdast.Document
	nodes []render.RenderNode
	top   int
}

func newTermPane(out io.Writer, styles *pretty.Styles, width, height int, mode config.OpenMode) *termPane {
	clearFirst := false
	if f, ok := out.(*os.File); ok {
		clearFirst = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &termPane{
		out:        out,
		painter:    pretty.NewPainter(styles, width),
		styles:     styles,
		height:     max(height, 0),
		mode:       mode,
		clearFirst: clearFirst,
	}
}

// show makes gen the painted generation.
func (p *termPane) show(path string, gen *preview.Generation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	p.id = gen.ID
	p.doc = gen.Document
	p.nodes = gen.Nodes
	p.paint()
}

// ScrollPreviewToRow implements preview.PreviewPane.
func (p *termPane) ScrollPreviewToRow(row int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if row == p.top {
		return
	}
	p.top = row
	p.paint()
}

// window returns the rows shown for the current top row.
func (p *termPane) window() []render.RenderNode {
	if p.height == 0 || len(p.nodes) <= p.height {
		return p.nodes
	}
	top := max(0, min(p.top, len(p.nodes)-p.height))
	return p.nodes[top : top+p.height]
}

// sourceWindow returns the source lines shown in code mode. With a height
// the window starts at the line holding the top row.
func (p *termPane) sourceWindow() []string {
	first, last := 1, p.doc.LineCount()
	if p.height > 0 {
		if rows := p.window(); len(rows) > 0 {
			first, _ = p.doc.LineAt(rows[0].Span.Start)
		}
		last = min(last, first+p.height-1)
	}
	lines := make([]string, 0, max(last-first+1, 0))
	for line := first; line <= last; line++ {
		lines = append(lines, strings.TrimRight(string(p.doc.LineContent(line)), "\r"))
	}
	return lines
}

// paint must be called with mu held.
func (p *termPane) paint() {
	var b strings.Builder
	if p.clearFirst {
		b.WriteString(clearScreen)
	}
	b.WriteString(p.styles.FilePath.Render(p.path))
	b.WriteString(" ")
	b.WriteString(p.styles.Dim.Render(fmt.Sprintf("(generation %d, %d rows)", p.id, len(p.nodes))))
	b.WriteString("\n")

	switch {
	case p.doc == nil:
	case p.mode == config.OpenCode:
		for _, line := range p.sourceWindow() {
			b.WriteString(line)
			b.WriteString("\n")
		}
	case p.mode == config.OpenPreviewToSide:
		b.WriteString(p.painter.SideBySide(p.doc, p.nodes))
	default:
		for _, line := range p.painter.Paint(p.window()) {
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}

	// A failed write to the terminal has nowhere better to go.
	_, _ = io.WriteString(p.out, b.String())
}
