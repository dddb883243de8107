package runner

import (
	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// FileOutcome is the result of rendering one file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Document is the parsed file. Nil when Error is set.
	Document *mdast.Document

	// Render holds the render rows and offset map. Nil when Error is set.
	Render *render.Result

	// Error is set when the file could not be read or rendered.
	Error error
}

// Blocks returns the number of top-level blocks.
func (o FileOutcome) Blocks() int {
	return len(o.Document.Blocks())
}

// Rows returns the number of render rows.
func (o FileOutcome) Rows() int {
	if o.Render == nil {
		return 0
	}
	return len(o.Render.Nodes)
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// Blocks, Rows and Bytes are summed over processed files.
	Blocks int
	Rows   int
	Bytes  int
}

// Result is the outcome of a run. Files follow discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Blocks += outcome.Blocks()
	r.Stats.Rows += outcome.Rows()
	if outcome.Document != nil {
		r.Stats.Bytes += outcome.Document.Len()
	}
}
