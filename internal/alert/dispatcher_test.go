package alert

import (
	"context"
	"io"
	"testing"
	"time"

	"GoalSentinel/internal/model"

	"github.com/sirupsen/logrus"
)

type recordingNotifier struct {
	alerts []*model.Alert
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Deliver(_ context.Context, a *model.Alert) error {
	n.alerts = append(n.alerts, a)
	return nil
}

func newTestDispatcher() (*Dispatcher, *recordingNotifier) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	n := &recordingNotifier{}
	return NewDispatcher(n, log), n
}

func result(userID string, state model.MonitoringState, score int) *model.AnalysisResult {
	return &model.AnalysisResult{
		UserID: userID,
		Watchdog: model.WatchdogState{
			State:              state,
			RiskScore:          score,
			RecommendedActions: []string{"do something"},
		},
		AnalyzedAt: time.Unix(1700000000, 0),
	}
}

func TestDispatch_SevereStateAlwaysAlerts(t *testing.T) {
	d, n := newTestDispatcher()

	for _, state := range []model.MonitoringState{model.StateAggressive, model.StateEmergency} {
		// Even with an unchanged previous state.
		prev := result("u1", state, 70)
		if !d.Dispatch(context.Background(), result("u1", state, 70), prev) {
			t.Errorf("state %q: expected an alert", state)
		}
	}
	if len(n.alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(n.alerts))
	}
	for _, a := range n.alerts {
		if a.SchemaVersion != model.AlertSchemaVersion {
			t.Errorf("expected schema version %d, got %d", model.AlertSchemaVersion, a.SchemaVersion)
		}
		if a.ID == "" {
			t.Error("expected a non-empty alert id")
		}
	}
}

func TestDispatch_StateChangeAlerts(t *testing.T) {
	d, n := newTestDispatcher()

	prev := result("u1", model.StatePassive, 20)
	if !d.Dispatch(context.Background(), result("u1", model.StateActive, 45), prev) {
		t.Fatal("expected an alert on passive→active")
	}
	if n.alerts[0].State != model.StateActive {
		t.Errorf("expected active in alert, got %q", n.alerts[0].State)
	}
}

func TestDispatch_UnchangedMildStateStaysQuiet(t *testing.T) {
	d, n := newTestDispatcher()

	prev := result("u1", model.StateActive, 45)
	if d.Dispatch(context.Background(), result("u1", model.StateActive, 50), prev) {
		t.Error("unchanged active state should not alert")
	}
	if len(n.alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(n.alerts))
	}
}

func TestDispatch_FirstRunOnlyAlertsWhenSevere(t *testing.T) {
	d, n := newTestDispatcher()

	// No previous result: a mild first observation is not a "change".
	if d.Dispatch(context.Background(), result("u1", model.StatePassive, 10), nil) {
		t.Error("first passive observation should not alert")
	}
	if !d.Dispatch(context.Background(), result("u2", model.StateEmergency, 95), nil) {
		t.Error("first emergency observation should alert")
	}
	if len(n.alerts) != 1 {
		t.Errorf("expected 1 alert, got %d", len(n.alerts))
	}
}

func TestDispatch_FailedAnalysisNeverAlerts(t *testing.T) {
	d, n := newTestDispatcher()

	res := result("u1", model.StateEmergency, 95)
	res.AnalysisFailed = true
	if d.Dispatch(context.Background(), res, nil) {
		t.Error("failed analysis must not alert")
	}
	if len(n.alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(n.alerts))
	}
}
