package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Ignore matches slash-separated relative paths against glob patterns.
// "*" stays within one path segment and "**" crosses segments. A pattern
// without a slash also matches the base name, so "*.tmp.md" works at any
// depth.
type Ignore struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	source   string
	glob     glob.Glob
	baseOnly bool
}

// CompileIgnore compiles patterns. The first malformed pattern is reported.
func CompileIgnore(patterns []string) (*Ignore, error) {
	ig := &Ignore{patterns: make([]ignorePattern, 0, len(patterns))}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		ig.patterns = append(ig.patterns, ignorePattern{
			source:   p,
			glob:     g,
			baseOnly: !strings.Contains(p, "/"),
		})
	}
	return ig, nil
}

// Len returns the number of patterns.
func (ig *Ignore) Len() int {
	if ig == nil {
		return 0
	}
	return len(ig.patterns)
}

// MatchFile reports whether the file at rel is ignored.
func (ig *Ignore) MatchFile(rel string) bool {
	if ig.Len() == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range ig.patterns {
		if p.glob.Match(rel) || (p.baseOnly && p.glob.Match(base)) {
			return true
		}
	}
	return false
}

// MatchDir reports whether the directory at rel is ignored together with
// everything below it. "docs/**" matches the directory "docs".
func (ig *Ignore) MatchDir(rel string) bool {
	if ig.Len() == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	return ig.MatchFile(rel) || ig.MatchFile(rel+"/")
}
