package analyzer

import (
	"context"
	"errors"
	"fmt"

	"GoalSentinel/internal/model"
	"GoalSentinel/internal/plan"
	"GoalSentinel/internal/store"
	"GoalSentinel/internal/watchdog"

	"github.com/sirupsen/logrus"
)

// Enroll creates the user's cycle plan if none exists yet. The plan is
// created once; an existing plan is returned untouched.
func (a *Analyzer) Enroll(ctx context.Context, userID string) (*model.CyclePlan, error) {
	existing, err := a.store.GetPlan(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing plan: %w", err)
	}
	return a.generatePlan(ctx, userID)
}

// Replan explicitly regenerates the plan from the current snapshot,
// replacing the stored one. This is the only sanctioned plan mutation after
// enrollment.
func (a *Analyzer) Replan(ctx context.Context, userID string) (*model.CyclePlan, error) {
	return a.generatePlan(ctx, userID)
}

func (a *Analyzer) generatePlan(ctx context.Context, userID string) (*model.CyclePlan, error) {
	snap, err := a.store.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	a.sanitize(snap, a.log.WithField("user_id", userID))

	cycle := plan.Generate(snap, a.clock.Now())
	if err := a.store.PutPlan(ctx, cycle); err != nil {
		return nil, fmt.Errorf("store plan: %w", err)
	}
	a.log.WithField("user_id", userID).Info("cycle plan generated")
	return cycle, nil
}

// ClearEmergency is the explicit administrative exit from the Emergency
// state: the verdict is recomputed from the stored risk score alone. A user
// whose score is still in the Emergency band stays locked down.
func (a *Analyzer) ClearEmergency(ctx context.Context, userID string) (*model.WatchdogState, error) {
	res, err := a.store.GetResult(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	if res.Watchdog.State != model.StateEmergency {
		return &res.Watchdog, nil
	}

	snap, err := a.store.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	a.sanitize(snap, a.log.WithField("user_id", userID))

	res.Watchdog = watchdog.ClearEmergency(snap, res.Watchdog.RiskScore)
	if err := a.store.PutResult(ctx, res); err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"user_id": userID,
		"state":   res.Watchdog.State,
	}).Info("emergency cleared")
	return &res.Watchdog, nil
}
