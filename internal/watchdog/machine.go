package watchdog

import (
	"fmt"

	"GoalSentinel/internal/model"
)

// thresholds maps inclusive lower score bounds to monitoring states,
// checked from most to least severe.
var thresholds = []struct {
	MinScore int
	State    model.MonitoringState
}{
	{85, model.StateEmergency},
	{65, model.StateAggressive},
	{40, model.StateActive},
	{0, model.StatePassive},
}

// Classify maps a risk score to a monitoring state. Deterministic: the same
// score always yields the same state, regardless of any prior state.
func Classify(score int) model.MonitoringState {
	for _, t := range thresholds {
		if score >= t.MinScore {
			return t.State
		}
	}
	return model.StatePassive
}

// Evaluate computes the full watchdog verdict for one run. The state is a
// pure function of the score, with one exception: a user already in
// Emergency stays there until an explicit clear operation, no matter how far
// the score drops. The snapshot is only consulted to size the lockdown.
func Evaluate(snap *model.FinancialSnapshot, score int, prev model.MonitoringState) model.WatchdogState {
	state := Classify(score)
	if prev == model.StateEmergency {
		state = model.StateEmergency
	}

	ws := model.WatchdogState{
		State:              state,
		RiskScore:          score,
		Message:            messageFor(state, score),
		RecommendedActions: actionsFor(state),
	}
	if state == model.StateEmergency {
		ws.Lockdown = buildLockdown(snap)
	}
	return ws
}

// ClearEmergency recomputes the verdict from the score alone, discarding any
// retained Emergency state. This is the only way out of Emergency.
func ClearEmergency(snap *model.FinancialSnapshot, score int) model.WatchdogState {
	return Evaluate(snap, score, model.StatePassive)
}

func messageFor(state model.MonitoringState, score int) string {
	switch state {
	case model.StateEmergency:
		return fmt.Sprintf("Risk score %d: goal is in danger, lockdown protocol is in effect", score)
	case model.StateAggressive:
		return fmt.Sprintf("Risk score %d: goal is slipping, daily check-ins recommended", score)
	case model.StateActive:
		return fmt.Sprintf("Risk score %d: goal needs attention this week", score)
	default:
		return fmt.Sprintf("Risk score %d: goal is on a healthy track", score)
	}
}

func actionsFor(state model.MonitoringState) []string {
	switch state {
	case model.StateEmergency:
		return []string{
			"Follow every mandatory lockdown action before its deadline",
			"Suspend all discretionary purchases immediately",
			"Review the recovery plan with your coach",
		}
	case model.StateAggressive:
		return []string{
			"Review spending daily until the score drops",
			"Move any spare cash to the goal account now",
			"Pick one extra income challenge this week",
		}
	case model.StateActive:
		return []string{
			"Check progress against the weekly target mid-week",
			"Trim one expense category this week",
		}
	default:
		return []string{"Keep the current savings routine"}
	}
}
