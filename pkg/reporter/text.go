package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/mdpreview/internal/ui/pretty"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

// TextReporter paints render rows as styled terminal output.
type TextReporter struct {
	opts    Options
	styles  *pretty.Styles
	painter *pretty.Painter
	bw      *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &TextReporter{
		opts:    opts,
		styles:  styles,
		painter: pretty.NewPainter(styles, pretty.TerminalWidth(opts.Width, opts.Writer)),
		bw:      bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	multi := len(result.Files) > 1
	for i := range result.Files {
		if err := ctx.Err(); err != nil {
			return failed(result), fmt.Errorf("report cancelled: %w", err)
		}
		r.reportFile(&result.Files[i], multi)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failed(result), nil
}

// reportFile writes one file. The header is omitted for a single file.
func (r *TextReporter) reportFile(file *runner.FileOutcome, header bool) {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return
	}

	if header {
		fmt.Fprintf(r.bw, "%s %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Dim.Render(fmt.Sprintf("(%d rows)", file.Rows())))
	}

	if file.Render == nil {
		return
	}

	if r.opts.SideBySide {
		fmt.Fprint(r.bw, r.painter.SideBySide(file.Document, file.Render.Nodes))
	} else {
		for _, line := range r.painter.Paint(file.Render.Nodes) {
			r.bw.WriteString(strings.TrimRight(line, " "))
			r.bw.WriteByte('\n')
		}
	}

	if header {
		fmt.Fprintln(r.bw)
	}
}
