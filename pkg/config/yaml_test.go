package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Ignore slice", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{Ignore: []string{"*.md", "vendor/**"}}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		assert.Equal(t, "*.md", original.Ignore[0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.OpenMode = config.OpenPreview
		original.AutoOpen = true
		original.Watch.Debounce = 2 * time.Second
		original.Output.Width = 100
		original.Jobs = 4
		original.Strict = true
		original.SideBySide = true

		clone := original.Clone()
		assert.Equal(t, original, clone)
		assert.NotSame(t, original, clone)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
open_mode: preview
auto_open: true
language_detection: false
watch:
  debounce: 500ms
output:
  format: rows
  color: never
  width: 72
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, config.OpenPreview, cfg.OpenMode)
	assert.True(t, cfg.AutoOpen)
	assert.False(t, cfg.LanguageDetection)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, config.FormatRows, cfg.Output.Format)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
	assert.Equal(t, 72, cfg.Output.Width)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("watch: [unclosed"))
	require.Error(t, err)
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	out, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(out), "# header\n\n")
	assert.Contains(t, string(out), "open_mode: preview_to_side")
	assert.Contains(t, string(out), "debounce: 150ms")
	assert.NotContains(t, string(out), "jobs")
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal template parses", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(out)
		require.NoError(t, err)
		assert.Equal(t, config.OpenPreviewToSide, cfg.OpenMode)
	})

	t.Run("full template matches defaults", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(out)
		require.NoError(t, err)

		defaults := config.NewConfig()
		assert.Equal(t, defaults.OpenMode, cfg.OpenMode)
		assert.Equal(t, defaults.Watch, cfg.Watch)
		assert.Equal(t, defaults.Output, cfg.Output)
		assert.Equal(t, []string{"vendor/**", "node_modules/**"}, cfg.Ignore)
	})

	t.Run("json template", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, "preview_to_side", decoded["open_mode"])
	})
}
