package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Outcome reports what a step actually did, so the run log distinguishes
// fresh work from tolerated pre-existing state.
type Outcome int

const (
	// OutcomeApplied means the step ran unconditionally (package install,
	// config render).
	OutcomeApplied Outcome = iota
	// OutcomeCreated means the step found nothing and created it.
	OutcomeCreated
	// OutcomeAlreadyPresent means the step found prior state and left it
	// alone.
	OutcomeAlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyPresent:
		return "already-present"
	default:
		return "applied"
	}
}

// Step is one named unit of provisioning work.
type Step struct {
	Name string
	Run  func(ctx context.Context) (Outcome, error)
}

// StepResult records a completed step.
type StepResult struct {
	Name    string
	Outcome Outcome
}

// Orchestrator executes steps strictly in order under a fail-fast policy:
// the first error aborts the run, completed steps stay committed, and a
// re-invocation is expected to pick up from the partial state because
// every step is idempotent or check-then-act.
type Orchestrator struct {
	runID  string
	logger *slog.Logger
	steps  []Step
}

// New returns an orchestrator for the given steps. Each run gets a fresh
// run ID attached to every log line.
func New(logger *slog.Logger, steps []Step) *Orchestrator {
	runID := uuid.NewString()
	return &Orchestrator{
		runID:  runID,
		logger: logger.With("run_id", runID),
		steps:  steps,
	}
}

// RunID returns this run's identifier.
func (o *Orchestrator) RunID() string { return o.runID }

// Run executes every step in order. On the first failure it stops,
// returning the results of the steps that completed and the error; no
// rollback is attempted.
func (o *Orchestrator) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(o.steps))
	for _, step := range o.steps {
		o.logger.Info("step starting", "step", step.Name)
		outcome, err := step.Run(ctx)
		if err != nil {
			o.logger.Error("step failed, aborting run", "step", step.Name, "error", err)
			return results, fmt.Errorf("step %q: %w", step.Name, err)
		}
		o.logger.Info("step finished", "step", step.Name, "outcome", outcome.String())
		results = append(results, StepResult{Name: step.Name, Outcome: outcome})
	}
	return results, nil
}
