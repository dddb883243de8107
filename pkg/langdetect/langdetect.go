// Package langdetect labels fenced code blocks with a language name.
// An explicit info string wins; otherwise the content is classified with
// go-enry, so a preview can show a label even for bare ``` fences.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is the label used when no language can be determined.
const Text = "text"

// Source records how a label was obtained.
type Source uint8

const (
	// SourceNone means no signal was found and the label is Text.
	SourceNone Source = iota

	// SourceInfo means the fence info string named the language.
	SourceInfo

	// SourceShebang means a "#!" interpreter line decided.
	SourceShebang

	// SourcePattern means a content heuristic matched.
	SourcePattern

	// SourceClassifier means the enry classifier was confident.
	SourceClassifier
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceInfo:
		return "info"
	case SourceShebang:
		return "shebang"
	case SourcePattern:
		return "pattern"
	case SourceClassifier:
		return "classifier"
	default:
		return "none"
	}
}

// Result is a language label and where it came from.
type Result struct {
	Language string
	Source   Source
}

// classifierCandidates limits the classifier to languages that commonly
// appear in Markdown code fences.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Label returns the label for a code block with the given info string and
// content. A recognised info alias is canonicalised ("golang" -> "go"); an
// unknown info word is kept verbatim.
func Label(info string, content []byte) Result {
	if word := firstWord(info); word != "" {
		if lang, ok := enry.GetLanguageByAlias(word); ok {
			return Result{Language: normalize(lang), Source: SourceInfo}
		}
		return Result{Language: strings.ToLower(word), Source: SourceInfo}
	}
	return Classify(content)
}

// Detect returns the detected language for code content, or Text.
func Detect(content []byte) string {
	return Classify(content).Language
}

// Classify detects the language of content: shebang first, then content
// heuristics, then the enry classifier restricted to common fence languages.
func Classify(content []byte) Result {
	if len(bytes.TrimSpace(content)) == 0 {
		return Result{Language: Text, Source: SourceNone}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Result{Language: normalize(lang), Source: SourceShebang}
	}

	s := newSample(content)
	for _, p := range patterns {
		if p.match(s) {
			return Result{Language: p.lang, Source: SourcePattern}
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return Result{Language: normalize(lang), Source: SourceClassifier}
	}

	return Result{Language: Text, Source: SourceNone}
}

func firstWord(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	// "{.python}" and "python{1,3}" style attributes.
	return strings.Trim(strings.SplitN(fields[0], "{", 2)[0], ".{}")
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
