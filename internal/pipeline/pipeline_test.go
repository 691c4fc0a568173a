package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/proxyscope/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, analysis *model.Analysis) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, analysis *model.Analysis) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, analysis)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// announcingStep is a mockStep that also implements Announcer.
type announcingStep struct {
	mockStep
}

func (a *announcingStep) StartMessage() string { return "start " + a.name }
func (a *announcingStep) DoneMessage() string  { return "done " + a.name }

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
		if p.continueOnError {
			t.Error("expected continueOnError to default to false")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		if p := New(WithContinueOnError(true)); !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	expected := []string{"first", "second", "third"}
	names := p.StepNames()
	if len(names) != len(expected) {
		t.Fatalf("expected %d steps, got %d", len(expected), len(names))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
		}
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) func(context.Context, *model.Analysis) error {
			return func(context.Context, *model.Analysis) error {
				order = append(order, name)
				return nil
			}
		}

		p := New()
		p.AddSteps(
			&mockStep{name: "step-1", doFunc: record("step-1")},
			&mockStep{name: "step-2", doFunc: record("step-2")},
		)

		analysis := newSourceAnalysis("proxies.csv")
		if err := p.Execute(t.Context(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Join(order, ",") != "step-1,step-2" {
			t.Errorf("wrong execution order: %v", order)
		}
		if strings.Join(analysis.PerformedSteps, ",") != "step-1,step-2" {
			t.Errorf("wrong performed steps: %v", analysis.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddSteps(
			&mockStep{name: "failing-step", doFunc: func(context.Context, *model.Analysis) error { return expectedErr }},
			second,
		)

		analysis := newSourceAnalysis("proxies.csv")
		err := p.Execute(t.Context(), analysis)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if !errors.Is(analysis.Error, expectedErr) || analysis.ErrorMessage != "step failed" {
			t.Errorf("error not recorded: %v %q", analysis.Error, analysis.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "failing-step", doFunc: func(context.Context, *model.Analysis) error { return errors.New("boom") }},
			second,
		)

		analysis := newSourceAnalysis("proxies.csv")
		if err := p.Execute(t.Context(), analysis); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
		if !analysis.Failed() {
			t.Error("analysis should carry the error")
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		analysis := newSourceAnalysis("proxies.csv")
		if err := p.Execute(ctx, analysis); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not run after cancellation")
		}
		if !analysis.Failed() {
			t.Error("cancellation should be recorded")
		}
	})

	t.Run("prints progress of announcing steps", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := New(WithProgress(&buf))
		p.AddSteps(
			&announcingStep{mockStep{name: "a"}},
			&mockStep{name: "silent"},
			&announcingStep{mockStep{name: "b", doFunc: func(context.Context, *model.Analysis) error {
				return errors.New("fail")
			}}},
		)

		_ = p.Execute(t.Context(), newSourceAnalysis("x.csv")) //nolint:errcheck // failure is expected

		want := "start a\ndone a\nstart b\n"
		if buf.String() != want {
			t.Errorf("progress = %q, want %q", buf.String(), want)
		}
	})
}
