// Package parser turns Markdown source into an mdast.Document.
//
// Parsing is total: every byte sequence yields a Document. Malformed markup
// degrades to its most literal reading (an unmatched "**" stays text), and
// every element span bounds its source bytes exactly, markup included.
package parser

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// Option configures a parse.
type Option func(*options)

type options struct {
	strict bool
	logger *log.Logger
}

// WithStrict makes span invariant violations panic with *mdast.InvariantError
// instead of being repaired. Intended for tests and fuzzing.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithLogger sets the logger used for repair diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Parse parses src into a Document. It never fails.
//
// The returned Document references src directly; callers must not modify
// src afterwards.
func Parse(src []byte, opts ...Option) *mdast.Document {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	doc := mdast.NewDocumentFor(src)
	parseInto(doc, &cfg)

	if err := mdast.ValidateDocument(doc); err != nil {
		if cfg.strict {
			panic(err)
		}
		repair(doc, err, cfg.logger)
	}

	return doc
}

// parseInto builds the tree.
func parseInto(doc *mdast.Document, cfg *options) {
	defer func() {
		if recovered := recover(); recovered != nil {
			fallbackToLiteral(doc, cfg, recovered)
		}
	}()

	bp := &blockParser{src: doc.Source}
	bp.parseBlocks(doc.Root, sourceLines(doc), 1)
}

// fallbackToLiteral handles a panic raised while building the tree. Strict
// mode re-panics; otherwise the whole source degrades to one literal
// paragraph.
func fallbackToLiteral(doc *mdast.Document, cfg *options, recovered any) {
	if cfg.strict {
		panic(recovered)
	}
	cfg.logger.Debug("parser panic, using literal fallback", "panic", recovered)
	resetToLiteral(doc)
}

// resetToLiteral replaces the whole tree with one literal paragraph.
func resetToLiteral(doc *mdast.Document) {
	doc.Root = mdast.NewDocument()
	doc.Root.Span = mdast.NewSpan(0, len(doc.Source))
	if para := literalParagraph(doc.Source, trimSpan(doc.Source, 0, len(doc.Source))); para != nil {
		mdast.AppendChild(doc.Root, para)
	}
}

// repair replaces each top-level block that breaks a span invariant with a
// literal paragraph over its source range. Replacement spans are clamped so
// the result always validates.
func repair(doc *mdast.Document, err error, logger *log.Logger) {
	for attempt := 0; err != nil && attempt <= doc.Root.ChildCount(); attempt++ {
		var invariant *mdast.InvariantError
		if !errors.As(err, &invariant) {
			break
		}

		block := topLevel(doc.Root, invariant.Node)
		logger.Debug("invalid element span, using literal fallback",
			logging.FieldKind, invariant.Node.Kind.String(),
			logging.FieldReason, invariant.Reason)

		if block == nil {
			doc.Root.Span = mdast.NewSpan(0, len(doc.Source))
		} else {
			replaceWithLiteral(doc, block)
		}
		err = mdast.ValidateDocument(doc)
	}

	if err != nil {
		// Give up on structure entirely.
		logger.Debug("document still invalid after repair", logging.FieldError, fmt.Sprint(err))
		resetToLiteral(doc)
	}
}

// topLevel returns the ancestor of node that is a direct child of root.
func topLevel(root, node *mdast.Node) *mdast.Node {
	for n := node; n != nil; n = n.Parent {
		if n.Parent == root {
			return n
		}
	}
	return nil
}

func replaceWithLiteral(doc *mdast.Document, block *mdast.Node) {
	lo, hi := 0, len(doc.Source)
	if block.Prev != nil {
		lo = block.Prev.Span.End
	}
	if block.Next != nil {
		hi = block.Next.Span.Start
	}

	start := min(max(block.Span.Start, lo), hi)
	end := max(min(block.Span.End, hi), start)

	para := literalParagraph(doc.Source, mdast.NewSpan(start, end))
	if para == nil {
		mdast.RemoveChild(doc.Root, block)
		return
	}
	mdast.ReplaceChild(doc.Root, block, para)
}

// literalParagraph returns a paragraph holding the raw bytes of span as a
// single text node, or nil for an empty span.
func literalParagraph(src []byte, span mdast.Span) *mdast.Node {
	if span.IsEmpty() {
		return nil
	}
	para := mdast.NewNodeAt(mdast.NodeParagraph, span)
	literal := append([]byte(nil), src[span.Start:span.End]...)
	mdast.AppendChild(para, mdast.NewText(literal, span))
	return para
}

// trimSpan narrows [start, end) to exclude surrounding whitespace.
func trimSpan(src []byte, start, end int) mdast.Span {
	for start < end && isSpaceOrNewline(src[start]) {
		start++
	}
	for end > start && isSpaceOrNewline(src[end-1]) {
		end--
	}
	return mdast.NewSpan(start, end)
}
