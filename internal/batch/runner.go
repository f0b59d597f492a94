package batch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arcmind/prism/internal/core/arc"
	"github.com/arcmind/prism/internal/core/solver"
	"github.com/arcmind/prism/internal/store"
)

// Summary aggregates a batch run. AverageScore is the arithmetic mean of
// per-puzzle trustworthiness scores, the dataset-level metric reported by
// the rest of the system.
type Summary struct {
	Total        int     `json:"total"`
	Solved       int     `json:"solved"`
	Failed       int     `json:"failed"`
	AverageScore float64 `json:"average_score"`
}

type Runner struct {
	Solver  *solver.Solver
	Store   store.ExplanationStore
	Workers int
}

func NewRunner(s *solver.Solver, st store.ExplanationStore, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{Solver: s, Store: st, Workers: workers}
}

// Run processes every task in the directory through the solver with the
// configured worker concurrency, persisting each explanation. Provider
// failures are logged and counted, not fatal; the first storage error aborts
// the run.
func (r *Runner) Run(ctx context.Context, dir string, promptID string) (Summary, error) {
	tasks, err := arc.LoadTasks(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	var mu sync.Mutex
	summary := Summary{Total: len(tasks)}
	var totalScore float64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			exp, err := r.Solver.Solve(ctx, task, promptID)
			if err != nil {
				log.Printf("Batch: task %s failed: %v", task.ID, err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return nil
			}

			if err := r.Store.Save(ctx, exp); err != nil {
				return fmt.Errorf("failed to save explanation for %s: %w", task.ID, err)
			}

			mu.Lock()
			if exp.IsCorrect {
				summary.Solved++
			}
			totalScore += exp.TrustworthinessScore
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	if attempted := summary.Total - summary.Failed; attempted > 0 {
		summary.AverageScore = totalScore / float64(attempted)
	}
	return summary, nil
}
