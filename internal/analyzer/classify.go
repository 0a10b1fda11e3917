package analyzer

import "GoalSentinel/internal/model"

// Performance bands relative to the expected pace.
const (
	aheadBand   = 1.1
	onTrackBand = 0.9
	behindBand  = 0.7
)

// classifyPerformance compares goal progress against the expected pace.
// Week 1 is always not_started: there is no elapsed pace to compare against.
func classifyPerformance(progressPct, pacePct float64, week int) model.Performance {
	if week <= 1 {
		return model.PerformanceNotStarted
	}
	switch {
	case progressPct >= pacePct*aheadBand:
		return model.PerformanceAhead
	case progressPct >= pacePct*onTrackBand:
		return model.PerformanceOnTrack
	case progressPct >= pacePct*behindBand:
		return model.PerformanceBehind
	default:
		return model.PerformancePoor
	}
}

// nextWeekAdjustment selects the target multiplier from the progress bucket.
func nextWeekAdjustment(progressPct float64, perf model.Performance) model.Adjustment {
	if perf == model.PerformanceNotStarted {
		return model.Adjustment{
			Multiplier: 1.0,
			Reason:     "First week of the cycle, keeping the baseline target",
		}
	}
	switch {
	case progressPct < 25:
		return model.Adjustment{
			Multiplier: 1.3,
			Reason:     "Progress is far behind, raising next week's target to catch up",
		}
	case progressPct < 50:
		return model.Adjustment{
			Multiplier: 1.15,
			Reason:     "Progress is lagging, nudging next week's target up",
		}
	default:
		return model.Adjustment{
			Multiplier: 0.95,
			Reason:     "Good progress, easing next week's target slightly",
		}
	}
}

// Baseline recommendations per progress bucket.
var (
	lowProgressRecs = []string{
		"Set up an automatic transfer to the goal account on payday",
		"Cut one recurring subscription this week",
		"Track every expense for the next 7 days",
	}
	midProgressRecs = []string{
		"Increase your weekly transfer by 10%",
		"Review your three largest expense categories",
		"Move any idle cash into the goal account",
	}
	highProgressRecs = []string{
		"Keep the current transfer schedule going",
		"Park the saved amount in a separate account so it stays saved",
		"Consider a higher goal for the next cycle",
	}
)

// skillRecs supplements the baseline with earning ideas matching declared
// skills. At most two are appended.
var skillRecs = map[string]string{
	"writing":     "Pitch a paid article or blog post this week",
	"design":      "Take on one small freelance design job",
	"programming": "Pick up a short freelance coding task",
	"teaching":    "Offer a tutoring session in your subject",
	"crafts":      "List one handmade item for sale",
}

const (
	maxRecommendations = 5
	maxSkillRecs       = 2
)

// recommendations builds the ≤5 deterministic recommendation list.
func recommendations(progressPct float64, skills []string) []string {
	var base []string
	switch {
	case progressPct < 25:
		base = lowProgressRecs
	case progressPct < 50:
		base = midProgressRecs
	default:
		base = highProgressRecs
	}

	recs := make([]string, 0, maxRecommendations)
	recs = append(recs, base...)

	added := 0
	for _, skill := range skills {
		if added == maxSkillRecs || len(recs) == maxRecommendations {
			break
		}
		if r, ok := skillRecs[skill]; ok {
			recs = append(recs, r)
			added++
		}
	}
	return recs
}
