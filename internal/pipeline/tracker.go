package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// runTracker records phase results, run status and metrics for one Run.
type runTracker struct {
	r      *Researcher
	log    *zap.Logger
	result *model.ResearchResult
}

func (t *runTracker) create(ctx context.Context, url string) {
	if t.r.store == nil {
		return
	}
	run, err := t.r.store.CreateRun(ctx, url)
	if err != nil {
		t.log.Warn("pipeline: failed to create run", zap.Error(err))
		return
	}
	t.result.RunID = run.ID
}

func (t *runTracker) setStatus(ctx context.Context, status model.RunStatus) {
	if t.r.store == nil || t.result.RunID == "" {
		return
	}
	if err := t.r.store.UpdateRunStatus(ctx, t.result.RunID, status); err != nil {
		t.log.Warn("pipeline: failed to update status", zap.String("status", string(status)), zap.Error(err))
	}
}

// phase runs fn, timing it and appending its result. A phase that sets its
// own status (e.g. skipped) keeps it.
func (t *runTracker) phase(name string, fn func() (*model.PhaseResult, error)) error {
	start := time.Now()
	pr, err := fn()
	elapsed := time.Since(start)

	if pr == nil {
		pr = &model.PhaseResult{}
	}
	pr.Name = name
	pr.Duration = elapsed.Milliseconds()

	switch {
	case err != nil:
		pr.Status = model.PhaseStatusFailed
		pr.Error = err.Error()
		t.log.Error("pipeline: phase failed",
			zap.String("phase", name),
			zap.Int64("duration_ms", pr.Duration),
			zap.Error(err),
		)
	case pr.Status == "":
		pr.Status = model.PhaseStatusComplete
		t.log.Debug("pipeline: phase complete",
			zap.String("phase", name),
			zap.Int64("duration_ms", pr.Duration),
		)
	}

	t.r.metrics.ObservePhase(name, elapsed)
	t.r.metrics.ObserveTokens(pr.TokenUsage)
	t.result.TokenUsage.Add(pr.TokenUsage)
	t.result.Phases = append(t.result.Phases, *pr)
	return err
}

func (t *runTracker) fail(ctx context.Context, cause error) {
	t.r.metrics.ObserveRun(model.RunStatusFailed)
	if t.r.store == nil || t.result.RunID == "" {
		return
	}
	if err := t.r.store.FailRun(ctx, t.result.RunID, cause.Error()); err != nil {
		t.log.Warn("pipeline: failed to record failure", zap.Error(err))
	}
}

func (t *runTracker) complete(ctx context.Context) {
	t.r.metrics.ObserveRun(model.RunStatusComplete)
	t.r.metrics.ObserveScore(t.result.Score.Score)
	if t.r.store == nil || t.result.RunID == "" {
		return
	}
	if err := t.r.store.UpdateRunResult(ctx, t.result.RunID, t.result); err != nil {
		t.log.Warn("pipeline: failed to save result", zap.Error(err))
	}
}
