package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/proxyscope/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// analysis from previous steps.
type Step interface {
	// Do executes the pipeline step.
	// Returns an error if the step fails; the pipeline records it in the analysis.
	Do(ctx context.Context, analysis *model.Analysis) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Announcer is implemented by steps that print progress lines before and
// after they run when the pipeline has a progress writer.
type Announcer interface {
	// StartMessage is printed before the step runs.
	StartMessage() string

	// DoneMessage is printed after the step succeeds.
	DoneMessage() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// progress receives the messages of Announcer steps. May be nil.
	progress io.Writer

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress sets the writer that receives step progress lines.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are recorded in the analysis, but subsequent steps still execute.
//
// The default is to stop on error: a dataset that cannot be loaded leaves
// nothing for the later steps to work on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; steps that block honour ctx
// themselves.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in the analysis).
func (p *Pipeline) Execute(ctx context.Context, analysis *model.Analysis) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.record(analysis, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"source", analysis.Source,
		)
		announcer, announces := step.(Announcer)
		if announces {
			p.announce(announcer.StartMessage())
		}

		if err := step.Do(ctx, analysis); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", analysis.Source,
				"error", err,
			)
			p.record(analysis, err)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"source", analysis.Source,
			)
			if announces {
				p.announce(announcer.DoneMessage())
			}
		}

		analysis.PerformedSteps = append(analysis.PerformedSteps, step.Name())
	}

	return nil
}

// record stores err in the analysis.
func (p *Pipeline) record(analysis *model.Analysis, err error) {
	analysis.Error = err
	analysis.ErrorMessage = err.Error()
}

// announce writes one progress line.
func (p *Pipeline) announce(msg string) {
	if p.progress == nil || msg == "" {
		return
	}
	if _, err := fmt.Fprintln(p.progress, msg); err != nil {
		p.logger.Debug("failed to write progress", "error", err)
	}
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
