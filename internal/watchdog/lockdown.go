package watchdog

import (
	"fmt"
	"sort"

	"GoalSentinel/internal/model"
)

// Spending caps under lockdown, as a share of reported monthly expenses.
const lockdownExpenseShare = 0.7

// lockedCategories is the non-essential spending set frozen under lockdown.
var lockedCategories = []string{
	"dining_out",
	"entertainment",
	"shopping",
	"subscriptions",
	"travel",
}

// buildLockdown derives the lockdown protocol from the user's snapshot.
// Always returns at least one mandatory action, sorted by priority ascending.
func buildLockdown(snap *model.FinancialSnapshot) *model.Lockdown {
	expenses := snap.MonthlyExpenses
	if expenses <= 0 {
		// No expense data: cap against the default income instead so the
		// limits are still actionable.
		expenses = model.DefaultMonthlyIncome
	}

	monthly := expenses * lockdownExpenseShare
	weekly := monthly / 4
	daily := weekly / 7

	weeklyTarget := snap.MonthlyIncome / 4 * 0.25
	if weeklyTarget <= 0 {
		weeklyTarget = model.DefaultMonthlyIncome / 4 * 0.25
	}

	actions := []model.MandatoryAction{
		{
			Priority: 1,
			Action:   "Freeze all non-essential spending",
			Deadline: "24h",
			Target:   "discretionary budget",
		},
		{
			Priority: 2,
			Action:   "Cancel or pause every renewing subscription",
			Deadline: "48h",
			Target:   "subscriptions",
		},
		{
			Priority: 3,
			Action:   fmt.Sprintf("Set up an automatic transfer of %.0f to the goal account", weeklyTarget),
			Deadline: "7d",
			Target:   "weekly savings target",
		},
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Priority < actions[j].Priority })

	categories := make([]string, len(lockedCategories))
	copy(categories, lockedCategories)

	return &model.Lockdown{
		LockedCategories: categories,
		SpendingLimits: model.SpendingLimits{
			Daily:   daily,
			Weekly:  weekly,
			Monthly: monthly,
		},
		MandatoryActions: actions,
	}
}
