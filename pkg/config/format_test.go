package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/pkg/config"
)

func TestParseOpenMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    config.OpenMode
		wantErr bool
	}{
		{"code", config.OpenCode, false},
		{"Preview", config.OpenPreview, false},
		{"preview_to_side", config.OpenPreviewToSide, false},
		{"preview-to-side", config.OpenPreviewToSide, false},
		{" preview ", config.OpenPreview, false},
		{"split", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := config.ParseOpenMode(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "json", "rows", "JSON"} {
		_, err := config.ParseOutputFormat(name)
		require.NoError(t, err, name)
	}
	_, err := config.ParseOutputFormat("sarif")
	require.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestParseColorMode(t *testing.T) {
	t.Parallel()

	got, err := config.ParseColorMode("Never")
	require.NoError(t, err)
	assert.Equal(t, config.ColorNever, got)

	_, err = config.ParseColorMode("sometimes")
	require.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestShouldOpenPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     config.OpenMode
		autoOpen bool
		path     string
		want     bool
	}{
		{"auto open to side", config.OpenPreviewToSide, true, "README.md", true},
		{"auto open in place", config.OpenPreview, true, "a/b.markdown", true},
		{"code mode never opens", config.OpenCode, true, "README.md", false},
		{"auto open disabled", config.OpenPreview, false, "README.md", false},
		{"not a markdown file", config.OpenPreview, true, "notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.OpenMode = tt.mode
			cfg.AutoOpen = tt.autoOpen
			assert.Equal(t, tt.want, cfg.ShouldOpenPreview(tt.path))
		})
	}
}

func TestIsMarkdownFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"README.md", nil, true},
		{"guide.MARKDOWN", nil, true},
		{"/tmp/dir.md/file.txt", nil, false},
		{"md", nil, false},
		{"notes.txt", []string{".txt"}, true},
		{"README.md", []string{".txt"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, config.IsMarkdownFile(tt.path, tt.exts...), tt.path)
	}
}
