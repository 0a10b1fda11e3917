package alert

import (
	"fmt"
	"strings"

	"GoalSentinel/internal/model"
)

var stateEmoji = map[model.MonitoringState]string{
	model.StatePassive:    "🟢",
	model.StateActive:     "🟡",
	model.StateAggressive: "🟠",
	model.StateEmergency:  "🔴",
}

// FormatAlert formats an alert as a Telegram HTML message.
func FormatAlert(a *model.Alert) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>GoalSentinel</b> | %s\n\n", stateEmoji[a.State], a.AnalyzedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("User: %s\n", a.UserID))
	b.WriteString(fmt.Sprintf("State: <b>%s</b> | Risk score: %d/100\n", a.State, a.RiskScore))

	if len(a.RecommendedActions) > 0 {
		b.WriteString("\n<b>Recommended actions:</b>\n")
		for _, action := range a.RecommendedActions {
			b.WriteString(fmt.Sprintf("  • %s\n", action))
		}
	}

	if a.State == model.StateEmergency {
		b.WriteString("\n🚨 Lockdown protocol is in effect until cleared by a coach.\n")
	}

	return b.String()
}

// FormatAlertPlain formats an alert as plain text for mail bodies.
func FormatAlertPlain(a *model.Alert) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Monitoring state for %s changed to %s (risk score %d/100) at %s.\n",
		a.UserID, a.State, a.RiskScore, a.AnalyzedAt.Format("2006-01-02 15:04:05")))

	if len(a.RecommendedActions) > 0 {
		b.WriteString("\nRecommended actions:\n")
		for _, action := range a.RecommendedActions {
			b.WriteString(fmt.Sprintf("- %s\n", action))
		}
	}

	if a.State == model.StateEmergency {
		b.WriteString("\nThe lockdown protocol is in effect until cleared by a coach.\n")
	}

	return b.String()
}
