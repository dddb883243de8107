package langdetect

import (
	"bytes"
	"strings"
)

// sample holds the views of a code block the heuristics inspect.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
	upper   string
}

func newSample(content []byte) sample {
	text := string(content)
	return sample{
		raw:     content,
		trimmed: bytes.TrimSpace(content),
		text:    text,
		upper:   strings.ToUpper(strings.TrimSpace(text)),
	}
}

// pattern is a highly indicative content heuristic.
type pattern struct {
	lang  string
	match func(s sample) bool
}

// patterns run in order of specificity; the first match wins.
//
//nolint:gochecknoglobals // read-only lookup table
var patterns = []pattern{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", isPython},
	{"html", func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{"json", func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
			(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
	}},
	{"sql", func(s sample) bool {
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(s.upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return containsAny(s.text, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return containsAny(s.text, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", isYAML},
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go groups imports as "import (".
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || strings.HasPrefix(strings.TrimSpace(s.text), "import ")) {
		return true
	}
	return containsAny(s.text, "__name__", "__main__")
}

// isYAML counts "key: value" lines and root-level list items.
func isYAML(s sample) bool {
	keys := 0
	for _, line := range bytes.Split(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") && line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
