package alert

import (
	"context"

	"GoalSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier is the external notification collaborator. Delivery retries
// belong to implementations; the dispatcher only enqueues.
type Notifier interface {
	Name() string
	Deliver(ctx context.Context, a *model.Alert) error
}

// Dispatcher decides, per user and per run, whether the just-computed
// analysis result warrants an alert.
type Dispatcher struct {
	notifier Notifier
	log      *logrus.Logger
}

func NewDispatcher(n Notifier, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: log}
}

// Dispatch emits an alert when the new state is severe, or when it differs
// from the state stored by the previous run. A user with no previous result
// only alerts on severity, so first enrollment sweeps don't flood the
// collaborator. Failed analyses never alert; they are flagged on the
// diagnostic log instead. Returns whether an alert was enqueued.
func (d *Dispatcher) Dispatch(ctx context.Context, res, prev *model.AnalysisResult) bool {
	entry := d.log.WithFields(logrus.Fields{
		"user_id": res.UserID,
		"state":   res.Watchdog.State,
	})

	if res.AnalysisFailed {
		entry.Warn("analysis failed, suppressing alert")
		return false
	}

	changed := prev != nil && prev.Watchdog.State != res.Watchdog.State
	if !res.Watchdog.State.Severe() && !changed {
		return false
	}

	a := &model.Alert{
		ID:                 uuid.NewString(),
		UserID:             res.UserID,
		State:              res.Watchdog.State,
		RiskScore:          res.Watchdog.RiskScore,
		RecommendedActions: res.Watchdog.RecommendedActions,
		AnalyzedAt:         res.AnalyzedAt,
		SchemaVersion:      model.AlertSchemaVersion,
	}

	// At-least-once enqueue: a delivery error is logged, not retried here.
	if err := d.notifier.Deliver(ctx, a); err != nil {
		entry.WithError(err).WithField("notifier", d.notifier.Name()).Error("alert delivery failed")
	}
	return true
}
