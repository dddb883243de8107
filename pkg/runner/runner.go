package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/fsutil"
	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/parser"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// Runner parses and renders files with a fixed set of options.
type Runner struct {
	logger     *log.Logger
	parserOpts []parser.Option
	renderOpts []render.Option
}

// New creates a Runner configured from cfg. A nil logger uses the default.
func New(cfg *config.Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	r := &Runner{logger: logger}
	if cfg.Strict {
		r.parserOpts = append(r.parserOpts, parser.WithStrict())
	}
	r.parserOpts = append(r.parserOpts, parser.WithLogger(logger))
	r.renderOpts = append(r.renderOpts,
		render.WithLanguageDetection(cfg.LanguageDetection),
		render.WithLogger(logger))
	return r
}

// RenderFile reads, parses and renders the file at path.
func (r *Runner) RenderFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	doc, res := r.RenderBytes(content)
	if err := res.Map.Validate(); err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}

	outcome.Document = doc
	outcome.Render = res
	return outcome
}

// RenderBytes parses and renders src.
func (r *Runner) RenderBytes(src []byte) (*mdast.Document, *render.Result) {
	doc := parser.Parse(src, r.parserOpts...)
	return doc, render.Render(doc, r.renderOpts...)
}

// Run discovers files under opts.Paths and renders them concurrently.
// Results keep discovery order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	r.logger.Debug("rendering files",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.RenderFile(ctx, path)
		if outcome.Error != nil {
			r.logger.Debug("render failed", logging.FieldPath, path, logging.FieldError, outcome.Error)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
