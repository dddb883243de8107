package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdpreview/pkg/render"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's rows.
type JSONFileResult struct {
	Path  string    `json:"path"`
	Rows  []JSONRow `json:"rows"`
	Error string    `json:"error,omitempty"`
}

// JSONRow is one render row with its source position.
type JSONRow struct {
	Row      int       `json:"row"`
	Kind     string    `json:"kind"`
	Role     string    `json:"role"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Depth    int       `json:"depth,omitempty"`
	Marker   string    `json:"marker,omitempty"`
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Cells    []string  `json:"cells,omitempty"`
	Runs     []JSONRun `json:"runs,omitempty"`
}

// JSONRun is a styled range of a row's text.
type JSONRun struct {
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Styles      []string `json:"styles,omitempty"`
	Destination string   `json:"destination,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesRendered   int `json:"filesRendered"`
	FilesErrored    int `json:"filesErrored"`
	Blocks          int `json:"blocks"`
	Rows            int `json:"rows"`
	Bytes           int `json:"bytes"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesErrored, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	output.Summary = JSONSummary{
		FilesDiscovered: result.Stats.FilesDiscovered,
		FilesRendered:   result.Stats.FilesProcessed,
		FilesErrored:    result.Stats.FilesErrored,
		Blocks:          result.Stats.Blocks,
		Rows:            result.Stats.Rows,
		Bytes:           result.Stats.Bytes,
	}

	for i := range result.Files {
		file := &result.Files[i]
		fileResult := JSONFileResult{
			Path: displayPath(file.Path, r.opts.WorkingDir),
			Rows: make([]JSONRow, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if file.Render != nil {
			fileResult.Rows = make([]JSONRow, 0, len(file.Render.Nodes))
			for j := range file.Render.Nodes {
				node := &file.Render.Nodes[j]
				row := JSONRow{
					Row:      node.Row,
					Kind:     node.Kind.String(),
					Role:     node.Role.String(),
					Start:    node.Span.Start,
					End:      node.Span.End,
					Depth:    node.Depth,
					Marker:   node.Marker,
					Text:     node.Text,
					Language: node.Language,
					Cells:    node.Cells,
				}
				if file.Document != nil {
					row.Line, row.Column = file.Document.LineAt(node.Span.Start)
				}
				for _, run := range node.Runs {
					row.Runs = append(row.Runs, JSONRun{
						Start:       run.Start,
						End:         run.End,
						Styles:      styleNames(run.Style),
						Destination: run.Destination,
					})
				}
				fileResult.Rows = append(fileResult.Rows, row)
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

// styleNames lists the inline styles set in s.
func styleNames(s render.Style) []string {
	var names []string
	for _, st := range []struct {
		style render.Style
		name  string
	}{
		{render.StyleStrong, "strong"},
		{render.StyleEmphasis, "emphasis"},
		{render.StyleCode, "code"},
		{render.StyleLink, "link"},
		{render.StyleImage, "image"},
	} {
		if s.Has(st.style) {
			names = append(names, st.name)
		}
	}
	return names
}
