package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"GoalSentinel/internal/alert"
	"GoalSentinel/internal/model"
	"GoalSentinel/internal/plan"
	"GoalSentinel/internal/risk"
	"GoalSentinel/internal/store"
	"GoalSentinel/internal/watchdog"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSweepInProgress is returned when a trigger fires while a sweep is
// still running (or its guard TTL has not lapsed).
var ErrSweepInProgress = errors.New("analyzer: a sweep is already in progress")

// persistenceRetryBackoff is the pause before the single store retry.
const persistenceRetryBackoff = 250 * time.Millisecond

// Exactly one of the worker goroutine and the timeout path commits a user's
// outcome; the claim settles the race.
const (
	claimUndecided int32 = iota
	claimWorker
	claimTimedOut
)

// Config bounds the sweep's resource usage.
type Config struct {
	// Workers caps concurrent per-user analyses.
	Workers int
	// UserTimeout bounds one user's analysis; on expiry the user is marked
	// failed and the pool moves on.
	UserTimeout time.Duration
	// SweepTTL releases a wedged sweep guard after this long.
	SweepTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 16
	}
	if c.UserTimeout <= 0 {
		c.UserTimeout = 5 * time.Second
	}
	if c.SweepTTL <= 0 {
		c.SweepTTL = 10 * time.Minute
	}
	return c
}

// Analyzer runs the batch sweep over all enrolled users.
type Analyzer struct {
	store      store.Store
	dispatcher *alert.Dispatcher
	log        *logrus.Logger
	clock      Clock
	cfg        Config
	guard      sweepGuard
}

func New(st store.Store, d *alert.Dispatcher, log *logrus.Logger, clock Clock, cfg Config) *Analyzer {
	return &Analyzer{
		store:      st,
		dispatcher: d,
		log:        log,
		clock:      clock,
		cfg:        cfg.withDefaults(),
	}
}

// Run executes one full sweep. Per-user failures are isolated and recorded;
// only a failure to enumerate the user set fails the run. Scheduled and
// manual triggers share the same in-flight guard.
func (a *Analyzer) Run(ctx context.Context) (*model.RunSummary, error) {
	startedAt := a.clock.Now()
	token, ok := a.guard.tryAcquire(startedAt, a.cfg.SweepTTL)
	if !ok {
		return nil, ErrSweepInProgress
	}
	defer a.guard.release(token)

	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate users: %w", err)
	}

	runID := uuid.NewString()
	a.log.WithFields(logrus.Fields{"run_id": runID, "users": len(users)}).Info("batch sweep started")

	workers := a.cfg.Workers
	if workers > len(users) {
		workers = len(users)
	}

	jobs := make(chan string)
	outcomes := make(chan *model.AnalysisResult, len(users))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				outcomes <- a.analyzeWithTimeout(ctx, userID)
			}
		}()
	}
	for _, userID := range users {
		jobs <- userID
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	summary := &model.RunSummary{RunID: runID, StartedAt: startedAt}
	for res := range outcomes {
		summary.UsersAnalyzed++
		if res.AnalysisFailed {
			summary.FailedUsers = append(summary.FailedUsers, res.UserID)
			continue
		}
		if res.Watchdog.State.Severe() {
			summary.HighRiskCount++
		}
		if res.WeeklyPerformance == model.PerformanceAhead || res.WeeklyPerformance == model.PerformanceOnTrack {
			summary.OnTrackCount++
		}
		summary.RecommendationsGenerated += len(res.Recommendations)
	}
	sort.Strings(summary.FailedUsers)
	summary.FinishedAt = a.clock.Now()

	a.log.WithFields(logrus.Fields{
		"run_id":    runID,
		"analyzed":  summary.UsersAnalyzed,
		"high_risk": summary.HighRiskCount,
		"on_track":  summary.OnTrackCount,
		"failed":    len(summary.FailedUsers),
	}).Info("batch sweep finished")

	return summary, nil
}

// analyzeWithTimeout bounds one user's analysis. A hung store or notifier
// call cannot stall the worker: on timeout the user is recorded as failed,
// and the commit claim guarantees the detached goroutine's late result is
// dropped rather than persisted behind the sweep's back.
func (a *Analyzer) analyzeWithTimeout(parent context.Context, userID string) *model.AnalysisResult {
	ctx, cancel := context.WithTimeout(parent, a.cfg.UserTimeout)
	defer cancel()

	claim := &atomic.Int32{}
	done := make(chan *model.AnalysisResult, 1)
	go func() {
		done <- a.analyzeUser(ctx, userID, claim)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		if !claim.CompareAndSwap(claimUndecided, claimTimedOut) {
			// The worker committed right at the deadline; keep its outcome.
			return <-done
		}
		a.log.WithField("user_id", userID).Warn("analysis timed out")
		return a.recordTimeout(parent, userID)
	}
}

// analyzeUser computes one user's full analysis and persists it. Every error
// path degrades to a failed result; nothing propagates to the sweep.
func (a *Analyzer) analyzeUser(ctx context.Context, userID string, claim *atomic.Int32) *model.AnalysisResult {
	entry := a.log.WithField("user_id", userID)
	analyzedAt := a.clock.Now()

	prev, err := a.previousResult(ctx, userID)
	if err != nil {
		// Proceeding without history would break Emergency stickiness and
		// alert change-detection, and overwriting a record we couldn't read
		// could erase a stored Emergency. Fail the user and leave the stored
		// result alone.
		entry.WithError(err).Error("prior result unreadable")
		res := failedResult(userID, analyzedAt, nil)
		if a.claimCommit(ctx, claim) {
			a.dispatcher.Dispatch(ctx, res, nil)
		}
		return res
	}

	snap, err := a.getSnapshotRetry(ctx, userID)
	if err != nil {
		entry.WithError(err).Error("snapshot read failed")
		return a.recordFailure(ctx, claim, userID, analyzedAt, prev)
	}
	a.sanitize(snap, entry)

	cycle, err := a.getOrCreatePlan(ctx, snap)
	if err != nil {
		entry.WithError(err).Error("plan read failed")
		return a.recordFailure(ctx, claim, userID, analyzedAt, prev)
	}

	score, _ := risk.Score(snap, cycle)
	if clamped, changed := risk.Clamp(score); changed {
		entry.Warnf("risk score %d outside [0,100], clamped to %d", score, clamped)
		score = clamped
	}

	var prevState model.MonitoringState
	if prev != nil {
		prevState = prev.Watchdog.State
	}
	wd := watchdog.Evaluate(snap, score, prevState)

	progress := 0.0
	if snap.SavingsGoal > 0 {
		progress = snap.CurrentSavings / snap.SavingsGoal * 100
	}
	pace := float64(snap.CurrentWeek-1) / float64(cycle.Periods()) * 100
	perf := classifyPerformance(progress, pace, snap.CurrentWeek)

	res := &model.AnalysisResult{
		UserID:             userID,
		GoalProgressPct:    progress,
		WeeklyPerformance:  perf,
		Watchdog:           wd,
		Recommendations:    recommendations(progress, snap.Skills),
		NextWeekAdjustment: nextWeekAdjustment(progress, perf),
		AnalyzedAt:         analyzedAt,
	}

	if !a.claimCommit(ctx, claim) {
		// Timed out: the pool recorded the failure; this result is dropped.
		return res
	}
	if err := a.putResultRetry(ctx, res); err != nil {
		entry.WithError(err).Error("persist result failed")
		res.AnalysisFailed = true
	}

	a.dispatcher.Dispatch(ctx, res, prev)
	return res
}

// claimCommit reserves the sole right to persist and dispatch this user's
// outcome. It fails once the deadline has passed or the timeout path has
// already claimed the user.
func (a *Analyzer) claimCommit(ctx context.Context, claim *atomic.Int32) bool {
	if ctx.Err() != nil {
		return false
	}
	return claim.CompareAndSwap(claimUndecided, claimWorker)
}

// recordFailure persists a failed marker (best effort) and flags the user on
// the diagnostic path via the dispatcher.
func (a *Analyzer) recordFailure(ctx context.Context, claim *atomic.Int32, userID string, analyzedAt time.Time, prev *model.AnalysisResult) *model.AnalysisResult {
	res := failedResult(userID, analyzedAt, prev)
	if !a.claimCommit(ctx, claim) {
		return res
	}
	if err := a.putResultRetry(ctx, res); err != nil {
		a.log.WithField("user_id", userID).WithError(err).Warn("could not persist failed result")
	}
	a.dispatcher.Dispatch(ctx, res, prev)
	return res
}

// recordTimeout records a timed-out user under a fresh deadline, since the
// user's own context is already expired. History is read best-effort so the
// failed marker still carries the last known monitoring state.
func (a *Analyzer) recordTimeout(parent context.Context, userID string) *model.AnalysisResult {
	ctx, cancel := context.WithTimeout(parent, a.cfg.UserTimeout)
	defer cancel()

	prev, err := a.previousResult(ctx, userID)
	res := failedResult(userID, a.clock.Now(), prev)
	if err != nil {
		a.log.WithField("user_id", userID).WithError(err).Warn("prior result unreadable, leaving stored result untouched")
	} else if perr := a.putResultRetry(ctx, res); perr != nil {
		a.log.WithField("user_id", userID).WithError(perr).Warn("could not persist timeout result")
	}
	a.dispatcher.Dispatch(ctx, res, prev)
	return res
}

// failedResult marks a run as failed while carrying forward the last known
// monitoring state: a failed run must never erase a stored Emergency, which
// only the explicit clear operation may lift.
func failedResult(userID string, analyzedAt time.Time, prev *model.AnalysisResult) *model.AnalysisResult {
	res := &model.AnalysisResult{
		UserID:         userID,
		AnalyzedAt:     analyzedAt,
		AnalysisFailed: true,
	}
	if prev != nil {
		res.Watchdog = prev.Watchdog
	}
	return res
}

// sanitize substitutes documented defaults for invalid snapshot values.
// Income is deliberately left alone: the scorer treats a missing income as
// the worst case and the plan generator substitutes its own default.
func (a *Analyzer) sanitize(snap *model.FinancialSnapshot, entry *logrus.Entry) {
	if snap.SavingsGoal <= 0 {
		entry.Warnf("savings_goal %.2f invalid, using default %.0f", snap.SavingsGoal, model.DefaultSavingsGoal)
		snap.SavingsGoal = model.DefaultSavingsGoal
	}
	if snap.CurrentWeek < 1 || snap.CurrentWeek > model.CycleWeeks {
		entry.Warnf("current_week %d out of range, using default %d", snap.CurrentWeek, model.DefaultCurrentWeek)
		snap.CurrentWeek = model.DefaultCurrentWeek
	}
}

// previousResult loads the prior stored result, retrying once. A first run
// returns (nil, nil); an unreadable record returns the error so callers
// never proceed with history they couldn't read.
func (a *Analyzer) previousResult(ctx context.Context, userID string) (*model.AnalysisResult, error) {
	prev, err := a.store.GetResult(ctx, userID)
	if err == nil {
		return prev, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if berr := a.backoff(ctx); berr != nil {
		return nil, berr
	}
	prev, err = a.store.GetResult(ctx, userID)
	if err == nil {
		return prev, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// getOrCreatePlan lazily enrolls users without a stored plan.
func (a *Analyzer) getOrCreatePlan(ctx context.Context, snap *model.FinancialSnapshot) (*model.CyclePlan, error) {
	cycle, err := a.store.GetPlan(ctx, snap.UserID)
	if err == nil {
		return cycle, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		if err = a.backoff(ctx); err != nil {
			return nil, err
		}
		if cycle, err = a.store.GetPlan(ctx, snap.UserID); err == nil {
			return cycle, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	cycle = plan.Generate(snap, a.clock.Now())
	if err := a.store.PutPlan(ctx, cycle); err != nil {
		// The generated plan is still usable this run.
		a.log.WithField("user_id", snap.UserID).WithError(err).Warn("could not persist generated plan")
	}
	return cycle, nil
}

func (a *Analyzer) getSnapshotRetry(ctx context.Context, userID string) (*model.FinancialSnapshot, error) {
	snap, err := a.store.GetSnapshot(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if err := a.backoff(ctx); err != nil {
		return nil, err
	}
	return a.store.GetSnapshot(ctx, userID)
}

func (a *Analyzer) putResultRetry(ctx context.Context, res *model.AnalysisResult) error {
	if err := a.store.PutResult(ctx, res); err == nil {
		return nil
	}
	if err := a.backoff(ctx); err != nil {
		return err
	}
	return a.store.PutResult(ctx, res)
}

func (a *Analyzer) backoff(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(persistenceRetryBackoff):
		return nil
	}
}
