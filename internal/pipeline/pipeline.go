// Package pipeline orchestrates the stages of one crawl run (crawl, then
// persist) and fans multiple seeds out over a bounded number of
// concurrent runs.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/mailspider/mailspider/internal/model"
)

// Step is one stage of a run. Steps execute in sequence, each receiving
// the report accumulated by its predecessors.
type Step interface {
	// Do executes the step. Critical failures return an error;
	// recoverable problems should be recorded on the report instead.
	Do(ctx context.Context, report *model.RunReport) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes an ordered list of steps over a run report.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps later steps running after a failure. The
	// scan uses this so a broken history database cannot swallow the
	// crawl results that were already printed.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline; add stages with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps, executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence. Cancellation is checked between
// steps; the steps themselves are responsible for honoring the context
// while they run. With continueOnError set, the first error is returned
// after every step had its chance.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			if firstErr != nil {
				return firstErr
			}
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "seed", report.Seed)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"seed", report.Seed,
				"error", err,
			)
			if !p.continueOnError {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
