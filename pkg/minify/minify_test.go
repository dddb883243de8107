package minify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpreview/pkg/minify"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\n  ", ""},
		{"single line", "hello", "hello"},
		{"trailing newline dropped", "hello\n", "hello"},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"trailing single space", "a \nb", "a\nb"},
		{"trailing tab", "a\t\nb", "a\nb"},
		{"hard break kept", "a   \nb", "a  \nb"},
		{"hard break after tab", "a\t  \nb", "a  \nb"},
		{"blank run collapsed", "a\n\n\n\nb", "a\n\nb"},
		{"blank lines with spaces collapsed", "a\n  \n\t\n\nb", "a\n\nb"},
		{"leading blank lines dropped", "\n\n# Title", "# Title"},
		{"indentation kept", "- a\n  - b", "- a\n  - b"},
		{"markup kept", "**bold**", "**bold**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := minify.Normalize([]byte(tt.input))
			assert.Equal(t, tt.expected, got.String())
			assert.Equal(t, len(tt.input), got.RawLen())
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"# Title\r\n\r\n\r\nSome text  \r\n",
		"a \t \nb\n\n\n\n   \nc   ",
		"```\ncode   \n\n\n```\n",
		"\n\n\n",
		"x\t\t",
	}

	for _, input := range inputs {
		once := minify.Normalize([]byte(input))
		twice := minify.Normalize(once.Canonical())
		assert.Equal(t, once.String(), twice.String(), "input %q", input)
	}
}

func TestShouldReparse(t *testing.T) {
	t.Parallel()

	base := minify.Normalize([]byte("# Title\n\nSome text"))

	tests := []struct {
		name     string
		updated  string
		expected bool
	}{
		{"identical", "# Title\n\nSome text", false},
		{"crlf variant", "# Title\r\n\r\nSome text\r\n", false},
		{"extra blank lines", "# Title\n\n\n\nSome text\n\n", false},
		{"trailing spaces", "# Title \n\nSome text\t", false},
		{"content change", "# Title\n\nSome texts", true},
		{"markup change", "## Title\n\nSome text", true},
		{"paragraph merge", "# Title\nSome text", true},
		{"hard break added", "# Title\n\nSome  \ntext", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			updated := minify.Normalize([]byte(tt.updated))
			assert.Equal(t, tt.expected, minify.ShouldReparse(base, updated))
		})
	}

	assert.True(t, minify.ShouldReparse(nil, base))
}

func TestNormalized_OffsetTranslation(t *testing.T) {
	t.Parallel()

	raw := "# A  \r\n\r\n\r\n\r\nbody \n"
	norm := minify.Normalize([]byte(raw))
	require.Equal(t, "# A  \n\nbody", norm.String())

	tests := []struct {
		name      string
		raw       int
		canonical int
	}{
		{"start", 0, 0},
		{"inside heading", 2, 2},
		{"hard break space", 3, 3},
		{"line ending", 5, 5},
		{"dropped blank line", 9, 7},
		{"body start", 13, 7},
		{"dropped trailing space", 17, 11},
		{"past end", 100, 11},
		{"negative", -4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.canonical, norm.ToCanonical(tt.raw))
		})
	}

	// Canonical offsets map back onto the byte they were copied from.
	for canon := range norm.Len() {
		back := norm.ToRaw(canon)
		assert.Equal(t, canon, norm.ToCanonical(back), "canonical %d via raw %d", canon, back)
	}
	assert.Equal(t, len(raw), norm.ToRaw(norm.Len()))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	older := minify.Normalize([]byte("# Title\n\nSome text"))
	newer := minify.Normalize([]byte("# Title  \r\n\r\n\r\nSome text\r\n"))
	require.False(t, older.Equal(newer), "hard break changes the canonical form")

	newer = minify.Normalize([]byte("# Title \r\n\r\n\r\nSome text\r\n"))
	require.True(t, older.Equal(newer))

	// "Some" starts at 14 in the newer buffer and at 9 in the older one.
	assert.Equal(t, 9, minify.Translate(newer, older, 14))
	assert.Equal(t, 14, minify.Translate(older, newer, 9))
	assert.Equal(t, 4, minify.Translate(older, older, 4))
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"",
		"# Title\n\nSome text",
		"a  \r\nb",
		"\n\n\n",
		"- a\n- b\n  - c",
		"```\n\n\n```",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		once := minify.Normalize(data)
		twice := minify.Normalize(once.Canonical())
		if once.String() != twice.String() {
			t.Errorf("normalization not idempotent for %q", data)
		}

		for canon := range once.Len() {
			if got := once.ToCanonical(once.ToRaw(canon)); got != canon {
				t.Errorf("canonical %d round-trips to %d", canon, got)
			}
		}
	})
}
