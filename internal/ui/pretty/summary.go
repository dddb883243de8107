package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdpreview/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Rendered 3 files: 42 blocks, 57 rows, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found.") + "\n"
	}

	head := fmt.Sprintf("Rendered %d %s", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	if stats.FilesErrored == 0 {
		head = s.Success.Render(head)
	}

	parts := []string{
		fmt.Sprintf("%d %s", stats.Blocks, plural(stats.Blocks, "block", "blocks")),
		fmt.Sprintf("%d %s", stats.Rows, plural(stats.Rows, "row", "rows")),
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return head + ": " + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.SummaryTitle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(s.Divider.Render(strings.Repeat("-", summaryDividerWidth)))
	b.WriteString("\n")

	b.WriteString("  Files found:    " + strconv.Itoa(stats.FilesDiscovered) + "\n")
	b.WriteString("  Files rendered: " + strconv.Itoa(stats.FilesProcessed) + "\n")
	if stats.FilesErrored > 0 {
		b.WriteString("  Files failed:   " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	b.WriteString("  Blocks:         " + strconv.Itoa(stats.Blocks) + "\n")
	b.WriteString("  Rows:           " + strconv.Itoa(stats.Rows) + "\n")
	b.WriteString("  Bytes:          " + strconv.Itoa(stats.Bytes) + "\n")
	b.WriteString("\n")

	if stats.FilesErrored > 0 {
		b.WriteString(s.Failure.Render("Some files could not be rendered"))
	} else {
		b.WriteString(s.Success.Render("All files rendered"))
	}
	b.WriteString("\n")

	return b.String()
}
