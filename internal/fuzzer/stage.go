package fuzzer

import (
	"context"
	"math/rand"
	"time"

	"github.com/TNO-S3/wuppiefuzz/internal/executor"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/mutator"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
)

// calibrationRuns is how many times a freshly-scheduled entry is executed
// before power-based budgeting trusts its timing statistics, mirroring
// CalibrationStage.
const calibrationRuns = 3

// execRunner is the subset of Runner a Stage needs; defined here rather
// than imported as executor.Runner's concrete type so stage tests can stub
// it without standing up a real HTTP server.
type execRunner interface {
	Execute(ctx context.Context, baseURL string, chain *input.Chain, store *paramfeedback.Store) (*executor.Result, error)
}

// Stage is one phase of work a Loop iteration runs against a scheduled
// entry.
type Stage interface {
	Run(ctx context.Context, rng *rand.Rand, entry *QueueEntry) (*StageResult, error)
}

// StageResult carries everything a Loop iteration needs to feed into the
// feedback layer after a Stage runs.
type StageResult struct {
	Chain   *input.Chain // the exact chain that was executed — nil means entry.Chain, unmutated
	Result  *executor.Result
	Elapsed time.Duration
}

// CalibrationStage executes a freshly-added entry calibrationRuns times
// without mutating it, accumulating timing into the entry before any
// power-based scheduling budget is spent on it.
type CalibrationStage struct {
	Runner  execRunner
	BaseURL string
	Store   *paramfeedback.Store
}

// Run implements Stage.
func (s *CalibrationStage) Run(ctx context.Context, rng *rand.Rand, entry *QueueEntry) (*StageResult, error) {
	var last *StageResult
	for i := 0; i < calibrationRuns; i++ {
		start := time.Now()
		result, err := s.Runner.Execute(ctx, s.BaseURL, entry.Chain, s.Store)
		elapsed := time.Since(start)
		if err != nil {
			return nil, err
		}
		entry.Executions++
		entry.TotalTime += elapsed
		last = &StageResult{Result: result, Elapsed: elapsed}
	}
	return last, nil
}

// PowerMutationalStage applies one Mutator chosen at random from Mutators
// to entry's chain, then executes the mutated chain once — one tick of
// StdPowerMutationalStage, minus the "repeat Energy times within one stage
// call" batching, which Loop instead achieves by re-scheduling the same
// entry across ticks (simpler, and the Scheduler already biases reselection
// by Energy).
type PowerMutationalStage struct {
	Mutators []mutator.Mutator
	Runner   execRunner
	BaseURL  string
	Store    *paramfeedback.Store
}

// Run implements Stage.
func (s *PowerMutationalStage) Run(ctx context.Context, rng *rand.Rand, entry *QueueEntry) (*StageResult, error) {
	working := entry.Chain.Clone()

	if len(s.Mutators) > 0 {
		m := s.Mutators[rng.Intn(len(s.Mutators))]
		if _, err := mutator.Apply("power-stage", m, rng, working); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result, err := s.Runner.Execute(ctx, s.BaseURL, working, s.Store)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	entry.Executions++
	entry.TotalTime += elapsed

	return &StageResult{Chain: working, Result: result, Elapsed: elapsed}, nil
}
