package preview

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/minify"
	"github.com/yaklabco/mdpreview/pkg/parser"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// ErrRunning is returned by Run when the worker is already running.
var ErrRunning = errors.New("preview controller already running")

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEditor attaches editor at construction. See Attach.
func WithEditor(editor Editor) Option {
	return func(c *Controller) {
		c.attachOnNew = editor
	}
}

// WithPreviewPane sets the pane that receives preview scroll commands.
func WithPreviewPane(pane PreviewPane) Option {
	return func(c *Controller) {
		c.pane = pane
	}
}

// WithParserOptions appends parser options used for every cycle.
func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Controller) {
		c.parserOpts = append(c.parserOpts, opts...)
	}
}

// WithRenderOptions appends render options used for every cycle.
func WithRenderOptions(opts ...render.Option) Option {
	return func(c *Controller) {
		c.renderOpts = append(c.renderOpts, opts...)
	}
}

// Controller drives parse and render cycles and scroll synchronization for
// one preview.
type Controller struct {
	cfg         config.Config
	logger      *log.Logger
	parserOpts  []parser.Option
	renderOpts  []render.Option
	attachOnNew Editor

	current atomic.Pointer[Generation]
	view    atomic.Pointer[bufferView]
	running atomic.Bool
	wake    chan struct{}

	// nextID is only touched by the worker.
	nextID uint64

	mu         sync.Mutex
	state      State
	pending    []byte
	hasPending bool
	scroll     *scrollRequest
	row        int
	editor     Editor
	pane       PreviewPane
	listeners  []func(*Generation)
}

// New creates a controller for cfg. Call Run to start the worker.
func New(cfg config.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:  cfg,
		wake: make(chan struct{}, 1),
	}

	if cfg.Strict {
		c.parserOpts = append(c.parserOpts, parser.WithStrict())
	}
	c.renderOpts = append(c.renderOpts, render.WithLanguageDetection(cfg.LanguageDetection))

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	c.parserOpts = append(c.parserOpts, parser.WithLogger(c.logger))
	c.renderOpts = append(c.renderOpts, render.WithLogger(c.logger))

	if c.attachOnNew != nil {
		c.Attach(c.attachOnNew)
		c.attachOnNew = nil
	}

	return c
}

// OpenMode returns the configured open policy.
func (c *Controller) OpenMode() config.OpenMode {
	return c.cfg.OpenMode
}

// ShouldOpenPreview reports whether opening path brings up a preview
// without being asked.
func (c *Controller) ShouldOpenPreview(path string) bool {
	return c.cfg.ShouldOpenPreview(path)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attach makes editor the source of buffer changes and the target of editor
// scroll commands, and submits its current buffer.
func (c *Controller) Attach(editor Editor) {
	c.mu.Lock()
	c.editor = editor
	c.mu.Unlock()

	editor.OnBufferChanged(c.SubmitText)
	c.SubmitText(editor.BufferText())
}

// OnGenerationPublished registers fn to run on the worker after each new
// generation is swapped in.
func (c *Controller) OnGenerationPublished(fn func(*Generation)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SubmitText queues text for the next cycle. A text that is still queued is
// replaced, so only the latest buffer is parsed.
func (c *Controller) SubmitText(text []byte) {
	text = slices.Clone(text)

	c.mu.Lock()
	c.pending = text
	c.hasPending = true
	c.state = StateParsing
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run processes submitted text until ctx is done. Cycles run to completion;
// Run returns nil once ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer c.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.wake:
			c.drain()
		}
	}
}

// drain runs cycles until the pending slot is empty, then settles.
func (c *Controller) drain() {
	for {
		text, ok := c.take()
		if !ok {
			return
		}
		c.process(text)
	}
}

// take empties the pending slot. When it is already empty the controller
// becomes synced and any held scroll request is replayed.
func (c *Controller) take() ([]byte, bool) {
	c.mu.Lock()
	if c.hasPending {
		text := c.pending
		c.pending = nil
		c.hasPending = false
		c.mu.Unlock()
		return text, true
	}

	if c.current.Load() != nil {
		c.state = StateSynced
	}
	req := c.scroll
	c.scroll = nil
	state := c.state
	c.mu.Unlock()

	if req != nil && state == StateSynced {
		c.logger.Debug("replaying held scroll", logging.FieldState, state.String())
		c.replay(req)
	}
	return nil, false
}

// process runs one cycle over text.
func (c *Controller) process(text []byte) {
	normalized := minify.Normalize(text)

	cur := c.current.Load()
	if cur != nil && !minify.ShouldReparse(cur.Normalized, normalized) {
		c.view.Store(&bufferView{generation: cur.ID, text: normalized})
		c.logger.Debug("buffer unchanged after normalization, skipping cycle",
			logging.FieldGeneration, cur.ID,
			logging.FieldBytes, len(text))
		return
	}

	doc := parser.Parse(text, c.parserOpts...)
	res := render.Render(doc, c.renderOpts...)

	c.nextID++
	gen := &Generation{
		ID:         c.nextID,
		Document:   doc,
		Nodes:      res.Nodes,
		Map:        res.Map,
		Normalized: normalized,
	}
	c.current.Store(gen)

	c.logger.Debug("published generation",
		logging.FieldGeneration, gen.ID,
		logging.FieldBlocks, len(doc.Blocks()),
		logging.FieldRows, len(gen.Nodes))

	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(gen)
	}
}

// Current returns the published generation, or nil before the first one.
func (c *Controller) Current() *Generation {
	return c.current.Load()
}

// IsCurrent reports whether gen is still the published generation.
// Consumers holding a generation use it to discard stale offset maps.
func (c *Controller) IsCurrent(gen *Generation) bool {
	return gen != nil && c.current.Load() == gen
}

// RenderNodes returns the rows of the published generation.
func (c *Controller) RenderNodes() []render.RenderNode {
	if gen := c.current.Load(); gen != nil {
		return gen.Nodes
	}
	return nil
}

// OffsetToRow maps an offset in the latest processed buffer to a row.
func (c *Controller) OffsetToRow(offset int) int {
	gen := c.current.Load()
	if gen == nil {
		return 0
	}
	if v := c.view.Load(); v != nil && v.generation == gen.ID {
		offset = minify.Translate(v.text, gen.Normalized, offset)
	}
	return gen.Map.OffsetToRow(offset)
}

// RowToOffset maps a row to an offset in the latest processed buffer.
func (c *Controller) RowToOffset(row int) int {
	gen := c.current.Load()
	if gen == nil {
		return 0
	}
	offset := gen.Map.RowToOffset(row)
	if v := c.view.Load(); v != nil && v.generation == gen.ID {
		offset = minify.Translate(gen.Normalized, v.text, offset)
	}
	return offset
}

// EditorCursorMoved scrolls the preview to the row holding offset. While not
// synced the request is held and replayed later.
func (c *Controller) EditorCursorMoved(offset int) {
	if c.hold(scrollRequest{kind: scrollFromEditor, value: offset}) {
		return
	}
	c.scrollPreview(c.OffsetToRow(offset))
}

// PreviewScrolled scrolls the editor to the start of row. While not synced
// the request is held and replayed later.
func (c *Controller) PreviewScrolled(row int) {
	if c.hold(scrollRequest{kind: scrollFromPreview, value: row}) {
		return
	}
	c.scrollEditor(row)
}

// PageDown moves both panes n rows forward from the last synced row.
func (c *Controller) PageDown(n int) {
	c.page(n)
}

// PageUp moves both panes n rows back from the last synced row.
func (c *Controller) PageUp(n int) {
	c.page(-n)
}

func (c *Controller) page(delta int) {
	if c.hold(scrollRequest{kind: scrollPage, value: delta}) {
		return
	}
	gen := c.current.Load()
	if gen == nil {
		return
	}

	c.mu.Lock()
	row := gen.Map.Page(c.row, delta)
	c.mu.Unlock()

	c.scrollPreview(row)
	c.scrollEditor(row)
}

// hold stores req when the controller is not synced and reports whether it
// did. Only the most recent request is kept.
func (c *Controller) hold(req scrollRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSynced {
		return false
	}
	c.scroll = &req
	return true
}

func (c *Controller) replay(req *scrollRequest) {
	switch req.kind {
	case scrollFromEditor:
		c.EditorCursorMoved(req.value)
	case scrollFromPreview:
		c.PreviewScrolled(req.value)
	case scrollPage:
		c.page(req.value)
	}
}

func (c *Controller) scrollPreview(row int) {
	c.mu.Lock()
	c.row = row
	pane := c.pane
	c.mu.Unlock()

	if pane != nil {
		pane.ScrollPreviewToRow(row)
	}
}

func (c *Controller) scrollEditor(row int) {
	offset := c.RowToOffset(row)

	c.mu.Lock()
	c.row = row
	editor := c.editor
	c.mu.Unlock()

	if editor != nil {
		editor.ScrollEditorToOffset(offset)
	}
}
