// Package export converts Markdown source to HTML with goldmark.
//
// The preview core never produces HTML; export is the path for saving a
// rendered copy of a buffer. The CommonMark flavor uses goldmark defaults and
// the GFM flavor adds the tables, strikethrough, autolink and task list
// extensions that the preview parser also recognizes.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Flavor identifies the Markdown flavor used for export.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithFlavor selects the Markdown flavor. Unknown flavors fall back to GFM.
func WithFlavor(flavor string) Option {
	return func(e *Exporter) {
		e.flavor = flavorOrDefault(flavor)
	}
}

// WithStandalone wraps the fragment in a complete HTML page titled title.
// An empty title uses the first heading, if any.
func WithStandalone(title string) Option {
	return func(e *Exporter) {
		e.standalone = true
		e.title = title
	}
}

// WithUnsafeHTML passes raw HTML in the source through to the output.
func WithUnsafeHTML() Option {
	return func(e *Exporter) {
		e.unsafe = true
	}
}

// Exporter renders Markdown to HTML. It is safe for concurrent use.
type Exporter struct {
	flavor     string
	standalone bool
	title      string
	unsafe     bool
	md         goldmark.Markdown
}

// New creates an Exporter. The default flavor is GFM.
func New(opts ...Option) *Exporter {
	e := &Exporter{flavor: FlavorGFM}
	for _, opt := range opts {
		opt(e)
	}
	e.md = newGoldmarkInstance(e.flavor, e.unsafe)
	return e
}

// Flavor returns the configured flavor.
func (e *Exporter) Flavor() string {
	return e.flavor
}

// Export writes the HTML for src to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer, src []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var body bytes.Buffer
	if err := e.md.Renderer().Render(&body, src, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	if !e.standalone {
		if _, err := w.Write(body.Bytes()); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		return nil
	}

	title := e.title
	if title == "" {
		if headings := outline(doc, src); len(headings) > 0 {
			title = headings[0].Text
		}
	}
	if _, err := fmt.Fprintf(w, pageTemplate, html.EscapeString(title), body.Bytes()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// Bytes returns the HTML for src.
func (e *Exporter) Bytes(ctx context.Context, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(ctx, &buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, unsafe bool) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	if unsafe {
		opts = append(opts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	return goldmark.New(opts...)
}
