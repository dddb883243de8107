package export_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/pkg/export"
)

func TestNew_Flavor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flavor string
		want   string
	}{
		{"commonmark", export.FlavorCommonMark, export.FlavorCommonMark},
		{"gfm", export.FlavorGFM, export.FlavorGFM},
		{"unknown defaults to gfm", "markdown-extra", export.FlavorGFM},
		{"empty defaults to gfm", "", export.FlavorGFM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, export.New(export.WithFlavor(tt.flavor)).Flavor())
		})
	}
}

func TestExport_Fragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flavor   string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and paragraph",
			src:      "# Title\n\nSome text",
			contains: []string{`<h1 id="title">Title</h1>`, "<p>Some text</p>"},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|--:|\n| 1 | 2 |",
			contains: []string{"<table>", "<th>a</th>", "text-align:right"},
		},
		{
			name:     "commonmark has no tables",
			flavor:   export.FlavorCommonMark,
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			excludes: []string{"<table>"},
		},
		{
			name:     "task list",
			src:      "- [x] done",
			contains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:     "fenced code keeps language",
			src:      "```go\nfunc main() {}\n```",
			contains: []string{`<code class="language-go">`},
		},
		{
			name:     "raw html is omitted by default",
			src:      "<b>x</b>",
			excludes: []string{"<b>x</b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []export.Option{}
			if tt.flavor != "" {
				opts = append(opts, export.WithFlavor(tt.flavor))
			}
			out, err := export.New(opts...).Bytes(context.Background(), []byte(tt.src))
			require.NoError(t, err)

			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, string(out), unwanted)
			}
			assert.NotContains(t, string(out), "<html>")
		})
	}
}

func TestExport_UnsafeHTML(t *testing.T) {
	t.Parallel()

	out, err := export.New(export.WithUnsafeHTML()).Bytes(context.Background(), []byte("<b>x</b>"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<b>x</b>")
}

func TestExport_Standalone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     string
		src       string
		wantTitle string
	}{
		{"explicit title", "Notes & more", "# Heading", "<title>Notes &amp; more</title>"},
		{"first heading", "", "intro\n\n## First *one*\n\n# Second", "<title>First one</title>"},
		{"no heading", "", "plain", "<title></title>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := export.New(export.WithStandalone(tt.title)).Export(context.Background(), &buf, []byte(tt.src))
			require.NoError(t, err)

			out := buf.String()
			assert.Contains(t, out, "<!DOCTYPE html>")
			assert.Contains(t, out, tt.wantTitle)
			assert.Contains(t, out, "</body>")
		})
	}
}

func TestExport_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := export.New().Bytes(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutline(t *testing.T) {
	t.Parallel()

	src := []byte("# Title\n\ntext\n\n## Part `two`\n\nSetext\n======\n\n# Title\n")
	headings := export.New().Outline(src)

	require.Len(t, headings, 4)
	assert.Equal(t, export.Heading{Level: 1, Text: "Title", ID: "title", Offset: 2}, headings[0])
	assert.Equal(t, 2, headings[1].Level)
	assert.Equal(t, "Part two", headings[1].Text)
	assert.Equal(t, 18, headings[1].Offset)
	assert.Equal(t, "Setext", headings[2].Text)
	assert.Equal(t, 1, headings[2].Level)
	assert.Equal(t, "title-1", headings[3].ID)
}
