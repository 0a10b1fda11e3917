package risk

import (
	"fmt"
	"math"

	"GoalSentinel/internal/model"
)

// Factor is a single contribution to the raw risk point total.
type Factor struct {
	Name       string
	Points     int
	Commentary string
}

// maxPoints is the highest raw point total the rules can produce.
const maxPoints = 8

// pointScale maps the 0..8 raw point total onto the 0-100 risk scale.
// The 0-100 scale is the only score exposed outside this package; the raw
// point total appears solely in the factor breakdown.
const pointScale = 12.5

// Score evaluates a snapshot against its plan and returns the 0-100 risk
// score plus the per-factor breakdown. Pure function, no side effects.
func Score(snap *model.FinancialSnapshot, cycle *model.CyclePlan) (int, []Factor) {
	savingsRatio := 0.0
	if snap.SavingsGoal > 0 {
		savingsRatio = snap.CurrentSavings / snap.SavingsGoal
	}

	// No income is treated as the worst case rather than dividing by zero.
	expenseRatio := 1.0
	if snap.MonthlyIncome > 0 {
		expenseRatio = snap.MonthlyExpenses / snap.MonthlyIncome
	}

	scheduleRatio := float64(snap.CurrentWeek) / float64(cycle.Periods())

	factors := []Factor{
		scoreSavings(savingsRatio),
		scoreExpenses(expenseRatio),
		scoreSchedule(scheduleRatio, savingsRatio),
	}

	points := 0
	for _, f := range factors {
		points += f.Points
	}

	score := int(math.Round(float64(points) * pointScale))
	if score > 100 {
		score = 100
	}
	return score, factors
}

// Clamp forces a score into [0,100]. Returns the clamped value and whether
// clamping was needed; callers log the latter as an invariant warning.
func Clamp(score int) (int, bool) {
	switch {
	case score < 0:
		return 0, true
	case score > 100:
		return 100, true
	default:
		return score, false
	}
}

func scoreSavings(ratio float64) Factor {
	var pts int
	switch {
	case ratio < 0.1:
		pts = 3
	case ratio < 0.3:
		pts = 2
	case ratio < 0.5:
		pts = 1
	}
	return Factor{
		Name:       "savings progress",
		Points:     pts,
		Commentary: fmt.Sprintf("savings at %.1f%% of goal", ratio*100),
	}
}

func scoreExpenses(ratio float64) Factor {
	var pts int
	switch {
	case ratio > 0.9:
		pts = 3
	case ratio > 0.8:
		pts = 2
	case ratio > 0.7:
		pts = 1
	}
	return Factor{
		Name:       "expense pressure",
		Points:     pts,
		Commentary: fmt.Sprintf("expenses at %.0f%% of income", ratio*100),
	}
}

// scoreSchedule penalizes being past the cycle midpoint with little saved.
func scoreSchedule(scheduleRatio, savingsRatio float64) Factor {
	var pts int
	if scheduleRatio > 0.5 && savingsRatio < 0.2 {
		pts = 2
	}
	return Factor{
		Name:       "schedule pressure",
		Points:     pts,
		Commentary: fmt.Sprintf("%.0f%% of cycle elapsed", scheduleRatio*100),
	}
}
