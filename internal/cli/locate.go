package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/render"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

// ErrLocateQuery is returned when locate gets no query or more than one.
var ErrLocateQuery = errors.New("exactly one of --offset, --row or --line is required")

type locateFlags struct {
	offset int
	row    int
	line   string
	page   int
}

func newLocateCommand() *cobra.Command {
	flags := &locateFlags{}

	cmd := &cobra.Command{
		Use:   "locate <file>",
		Short: "Map between source offsets and preview rows",
		Long: `Map a source position to the preview row that shows it, or a preview row
back to the source offset where it starts. This is the lookup a preview
uses to keep the editor and the preview scrolled together.

Examples:
  mdpreview locate README.md --offset 1200
  mdpreview locate README.md --line 42:1
  mdpreview locate README.md --row 17
  mdpreview locate README.md --row 17 --page 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.offset, "offset", 0, "byte offset in the source")
	cmd.Flags().IntVar(&flags.row, "row", 0, "preview row")
	cmd.Flags().StringVar(&flags.line, "line", "", "source position as LINE or LINE:COLUMN (1-based)")
	cmd.Flags().IntVar(&flags.page, "page", 0, "with --row, move this many rows (negative pages up)")

	return cmd
}

func runLocate(cmd *cobra.Command, path string, flags *locateFlags) error {
	queries := 0
	for _, name := range []string{"offset", "row", "line"} {
		if cmd.Flags().Changed(name) {
			queries++
		}
	}
	if queries != 1 {
		return ErrLocateQuery
	}

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	src, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	doc, res := runner.New(cfg, logging.Default()).RenderBytes(src)
	out := cmd.OutOrStdout()

	switch {
	case cmd.Flags().Changed("row"):
		row := flags.row
		if flags.page != 0 {
			row = res.Map.Page(row, flags.page)
		}
		offset := res.Map.RowToOffset(row)
		line, col := doc.LineAt(offset)
		fmt.Fprintf(out, "row %d -> offset %d (line %d, column %d)\n", row, offset, line, col)
		printRow(out, res, res.Map.OffsetToRow(offset))

	case cmd.Flags().Changed("line"):
		offset, err := parseLinePosition(doc, flags.line)
		if err != nil {
			return err
		}
		return locateOffset(out, doc, res, offset)

	default:
		return locateOffset(out, doc, res, flags.offset)
	}
	return nil
}

func locateOffset(out io.Writer, doc *mdast.Document, res *render.Result, offset int) error {
	if offset < 0 || offset > doc.Len() {
		return fmt.Errorf("offset %d out of range [0, %d]", offset, doc.Len())
	}
	row := res.Map.OffsetToRow(offset)
	line, col := doc.LineAt(offset)
	fmt.Fprintf(out, "offset %d (line %d, column %d) -> row %d\n", offset, line, col, row)
	printRow(out, res, row)
	printElement(out, doc, offset)
	return nil
}

// printElement writes the chain of source elements enclosing offset,
// outermost block first.
func printElement(out io.Writer, doc *mdast.Document, offset int) {
	node := mdast.Innermost(doc.Root, offset)
	if node == nil || node == doc.Root {
		return
	}
	var path []string
	for n := node; n != nil && n != doc.Root; n = n.Parent {
		path = append(path, n.Kind.String())
	}
	slices.Reverse(path)
	fmt.Fprintf(out, "  element: %s [%d:%d]\n", strings.Join(path, " > "), node.Span.Start, node.Span.End)
}

// printRow writes the kind and text of row, if it exists.
func printRow(out io.Writer, res *render.Result, row int) {
	if row < 0 || row >= len(res.Nodes) {
		return
	}
	node := &res.Nodes[row]
	text := node.Text
	if len(node.Cells) > 0 {
		text = strings.Join(node.Cells, " | ")
	}
	fmt.Fprintf(out, "  %s %s: %q\n", node.Kind, node.Role, node.Marker+text)
}

// parseLinePosition converts "LINE" or "LINE:COLUMN" to an offset.
func parseLinePosition(doc *mdast.Document, pos string) (int, error) {
	lineStr, colStr, hasCol := strings.Cut(pos, ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return 0, fmt.Errorf("invalid line %q: %w", pos, err)
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil {
			return 0, fmt.Errorf("invalid column %q: %w", pos, err)
		}
	}
	offset, ok := doc.Offset(line, col)
	if !ok {
		return 0, fmt.Errorf("position %s is outside the document", pos)
	}
	return offset, nil
}
