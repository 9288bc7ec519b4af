// Package runner drives the per-case pipeline: lookup, filter, order,
// reconcile, persist, merge. One case's failure never aborts the run.
package runner

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pge-tools/docketflow/internal/config"
	"github.com/pge-tools/docketflow/internal/persist"
	"github.com/pge-tools/docketflow/internal/retrieve"
)

// Terminal states of one case.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Cooldowns applied after a case fails, before the next case starts.
const (
	networkCooldown = 3 * time.Second
	failureCooldown = 2 * time.Second
)

// Workers above this are clamped; the remote service documents no
// concurrency guarantees.
const maxWorkers = 20

// DocketService is the slice of the remote client the runner needs.
type DocketService interface {
	QueryCase(ctx context.Context, caseNumber string) (string, error)
	FetchContents(ctx context.Context, caseNumber string, ids []string) (string, error)
}

// Archiver uploads a finished case's artifacts somewhere durable.
type Archiver interface {
	ArchiveCase(ctx context.Context, caseNumber string, paths []string) error
}

// CaseResult accumulates what one case produced. It is reported to the
// caller and then discarded; nothing persists across runs.
type CaseResult struct {
	CaseNumber    string
	Status        string
	Reason        string
	BinaryPaths   []string
	TextPaths     []string
	DocketPath    string
	CompositePath string

	DocumentsFound    int
	DocumentsSelected int
	DocumentsSaved    int
}

// Summary is the final account of one run.
type Summary struct {
	Attempted int
	Completed int
	Results   []CaseResult
}

// ProgressFunc is called after each case with (done, total).
type ProgressFunc func(done, total int)

// Runner owns the run configuration and walks the case list.
type Runner struct {
	cfg        *config.Config
	service    DocketService
	store      *persist.Store
	reconciler *retrieve.Reconciler
	archiver   Archiver
	logger     *zap.Logger
	progress   ProgressFunc

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New constructs a Runner over the given service.
func New(cfg *config.Config, service DocketService, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		service:    service,
		store:      persist.NewStore(cfg.OutputDir, cfg.Layout, logger),
		reconciler: retrieve.New(service, logger),
		logger:     logger,
		progress:   func(int, int) {},
		sleep:      time.Sleep,
	}
}

// SetProgress installs a progress callback.
func (r *Runner) SetProgress(fn ProgressFunc) {
	if fn != nil {
		r.progress = fn
	}
}

// SetArchiver enables artifact archival for completed cases.
func (r *Runner) SetArchiver(a Archiver) {
	r.archiver = a
}

// Run processes the configured cases and returns the summary. Cancellation
// is cooperative: a cancelled context stops the run between cases, not
// mid-request.
func (r *Runner) Run(ctx context.Context) Summary {
	cases := r.cfg.Cases
	total := min(r.cfg.MaxCases, len(cases))
	cases = cases[:total]

	workers := r.cfg.Workers
	if workers > 1 {
		return r.runConcurrent(ctx, cases, min(workers, maxWorkers))
	}
	return r.runSequential(ctx, cases)
}

func (r *Runner) runSequential(ctx context.Context, cases []string) Summary {
	summary := Summary{Results: make([]CaseResult, 0, len(cases))}
	total := len(cases)

	for i, raw := range cases {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled", zap.Int("remaining", total-i))
			break
		}
		res, paced := r.processCase(ctx, i, raw)
		summary.Results = append(summary.Results, res)
		summary.Attempted++
		if res.Status == StatusDone {
			summary.Completed++
		}
		r.progress(i+1, total)

		// Pace the service between full cases; early exits and the
		// last case skip the pause.
		if paced && i+1 < total && r.cfg.Pause > 0 {
			r.sleep(r.cfg.Pause)
		}
	}

	r.logger.Info("run finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("completed", summary.Completed),
	)
	return summary
}

// runConcurrent is the bounded batch mode: independent cases in parallel,
// ordering across cases not guaranteed, only the bound on in-flight work.
// Pacing does not apply; it exists to serialize load and contradicts
// parallel cases.
func (r *Runner) runConcurrent(ctx context.Context, cases []string, workers int) Summary {
	total := len(cases)
	results := make([]CaseResult, total)
	var done atomic.Int64

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, raw := range cases {
		eg.Go(func() error {
			if gctx.Err() != nil {
				results[i] = CaseResult{CaseNumber: raw, Status: StatusSkipped, Reason: "run cancelled"}
				return nil
			}
			res, _ := r.processCase(gctx, i, raw)
			results[i] = res
			r.progress(int(done.Add(1)), total)
			// Case failures are isolated; never cancel the group.
			return nil
		})
	}
	_ = eg.Wait()

	summary := Summary{Results: results, Attempted: total}
	for _, res := range results {
		if res.Status == StatusDone {
			summary.Completed++
		}
	}
	r.logger.Info("run finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("completed", summary.Completed),
		zap.Int("workers", workers),
	)
	return summary
}
