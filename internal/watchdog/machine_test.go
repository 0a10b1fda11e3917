package watchdog

import (
	"testing"

	"GoalSentinel/internal/model"
)

func TestClassify_AllBoundaries(t *testing.T) {
	tests := []struct {
		score int
		state model.MonitoringState
	}{
		{0, model.StatePassive},
		{39, model.StatePassive},
		{40, model.StateActive},
		{64, model.StateActive},
		{65, model.StateAggressive},
		{84, model.StateAggressive},
		{85, model.StateEmergency},
		{100, model.StateEmergency},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.state {
			t.Errorf("score %d: expected %q, got %q", tt.score, tt.state, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	// Same score, same state, regardless of call order.
	first := Classify(72)
	Classify(10)
	Classify(95)
	if got := Classify(72); got != first {
		t.Errorf("classification not deterministic: %q then %q", first, got)
	}
}

func TestEvaluate_EmergencyProducesLockdown(t *testing.T) {
	snap := &model.FinancialSnapshot{
		UserID:          "u1",
		MonthlyIncome:   2000,
		MonthlyExpenses: 1900,
	}
	ws := Evaluate(snap, 90, model.StatePassive)

	if ws.State != model.StateEmergency {
		t.Fatalf("expected emergency, got %q", ws.State)
	}
	if ws.Lockdown == nil {
		t.Fatal("expected a lockdown in the emergency state")
	}
	if len(ws.Lockdown.MandatoryActions) == 0 {
		t.Fatal("expected at least one mandatory action")
	}
	for i, a := range ws.Lockdown.MandatoryActions {
		if i > 0 && a.Priority < ws.Lockdown.MandatoryActions[i-1].Priority {
			t.Errorf("mandatory actions not sorted by priority: %d after %d",
				a.Priority, ws.Lockdown.MandatoryActions[i-1].Priority)
		}
		if a.Deadline == "" || a.Target == "" {
			t.Errorf("action %d missing deadline or target", i)
		}
	}
	if len(ws.Lockdown.LockedCategories) == 0 {
		t.Error("expected locked categories")
	}
	if ws.Lockdown.SpendingLimits.Daily <= 0 {
		t.Error("expected a positive daily spending limit")
	}
}

func TestEvaluate_NoLockdownBelowEmergency(t *testing.T) {
	snap := &model.FinancialSnapshot{UserID: "u1"}
	for _, score := range []int{0, 40, 65, 84} {
		ws := Evaluate(snap, score, model.StatePassive)
		if ws.Lockdown != nil {
			t.Errorf("score %d: unexpected lockdown in state %q", score, ws.State)
		}
	}
}

func TestEvaluate_EmergencyIsSticky(t *testing.T) {
	snap := &model.FinancialSnapshot{UserID: "u1", MonthlyExpenses: 2000}

	// A low score alone never exits Emergency.
	ws := Evaluate(snap, 10, model.StateEmergency)
	if ws.State != model.StateEmergency {
		t.Fatalf("expected retained emergency, got %q", ws.State)
	}
	if ws.Lockdown == nil {
		t.Error("retained emergency must keep its lockdown")
	}
	if ws.RiskScore != 10 {
		t.Errorf("retained emergency must still report the current score, got %d", ws.RiskScore)
	}
}

func TestClearEmergency(t *testing.T) {
	snap := &model.FinancialSnapshot{UserID: "u1", MonthlyExpenses: 2000}

	ws := ClearEmergency(snap, 30)
	if ws.State != model.StatePassive {
		t.Errorf("expected passive after clear at score 30, got %q", ws.State)
	}
	if ws.Lockdown != nil {
		t.Error("expected no lockdown after clear")
	}

	// A score still in the Emergency band stays locked down.
	ws = ClearEmergency(snap, 90)
	if ws.State != model.StateEmergency {
		t.Errorf("expected emergency to persist at score 90, got %q", ws.State)
	}
	if ws.Lockdown == nil {
		t.Error("expected lockdown to persist at score 90")
	}
}

func TestEvaluate_NonEmergencyTransitionsAreFree(t *testing.T) {
	snap := &model.FinancialSnapshot{UserID: "u1"}

	// Aggressive drops straight back to Passive on a low score.
	ws := Evaluate(snap, 10, model.StateAggressive)
	if ws.State != model.StatePassive {
		t.Errorf("expected passive, got %q", ws.State)
	}

	// And Passive jumps straight to Aggressive on a high one.
	ws = Evaluate(snap, 70, model.StatePassive)
	if ws.State != model.StateAggressive {
		t.Errorf("expected aggressive, got %q", ws.State)
	}
}
