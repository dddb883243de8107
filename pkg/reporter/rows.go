package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdpreview/internal/ui/pretty"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

// RowsReporter prints the render rows of each file as an aligned table of
// row index, kind, role, source span and text.
type RowsReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewRowsReporter creates a new rows reporter.
func NewRowsReporter(opts Options) *RowsReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &RowsReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Width, opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *RowsReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for i := range result.Files {
		if err := ctx.Err(); err != nil {
			return failed(result), fmt.Errorf("report cancelled: %w", err)
		}

		file := &result.Files[i]
		path := displayPath(file.Path, r.opts.WorkingDir)
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FilePath.Render(path))
		if file.Render != nil {
			fmt.Fprint(r.bw, r.formatter.FormatRows(file.Render.Nodes))
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}

	return failed(result), nil
}
