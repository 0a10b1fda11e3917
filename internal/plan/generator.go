package plan

import (
	"time"

	"GoalSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Curve parameters for the 7-week progressive plan.
const (
	// WeeklyFloor is the minimum weekly savings target in currency units.
	WeeklyFloor = 300.0
	// GrowthRate raises the target by 15% of the base per week.
	GrowthRate = 0.15
	// IncomeFactor sets the side-income target relative to the savings target.
	IncomeFactor = 1.3
)

var (
	four         = decimal.NewFromInt(4)
	baseFraction = decimal.NewFromFloat(0.25)
	floor        = decimal.NewFromFloat(WeeklyFloor)
	growth       = decimal.NewFromFloat(GrowthRate)
	incomeFac    = decimal.NewFromFloat(IncomeFactor)
)

// Generate builds the progressive savings plan for a user. The weekly base is
// a quarter of one month's income split over four weeks; users with no
// reported income get the default income so the base never collapses to zero.
// The resulting savings targets are monotonically non-decreasing.
func Generate(snap *model.FinancialSnapshot, now time.Time) *model.CyclePlan {
	income := snap.MonthlyIncome
	if income <= 0 {
		income = model.DefaultMonthlyIncome
	}

	base := decimal.NewFromFloat(income).Div(four).Mul(baseFraction)
	if base.LessThan(floor) {
		base = floor
	}

	weeks := make([]model.WeekTarget, 0, model.CycleWeeks)
	for w := 1; w <= model.CycleWeeks; w++ {
		mult := decimal.NewFromInt(1).Add(growth.Mul(decimal.NewFromInt(int64(w - 1))))
		target := base.Mul(mult)
		if target.LessThan(floor) {
			target = floor
		}
		target = target.Round(2)

		tier := tierFor(w)
		weeks = append(weeks, model.WeekTarget{
			WeekNumber:    w,
			SavingsTarget: target.InexactFloat64(),
			IncomeTarget:  target.Mul(incomeFac).Round(2).InexactFloat64(),
			Difficulty:    tier,
			Challenges:    challengesFor(tier),
		})
	}

	return &model.CyclePlan{
		UserID:    snap.UserID,
		Weeks:     weeks,
		CreatedAt: now,
	}
}

func tierFor(week int) model.DifficultyTier {
	switch {
	case week <= 2:
		return model.TierBeginner
	case week <= 5:
		return model.TierIntermediate
	default:
		return model.TierAdvanced
	}
}

// challengeTable maps each tier to its weekly challenges. Entries are
// deterministic so re-planning with an unchanged snapshot yields an
// identical plan.
var challengeTable = map[model.DifficultyTier][]string{
	model.TierBeginner: {
		"Log every expense for the week",
		"Prepare meals at home on weekdays",
	},
	model.TierIntermediate: {
		"Hold a zero-spend day",
		"Renegotiate or cancel one recurring bill",
		"Sell one unused item",
	},
	model.TierAdvanced: {
		"Pitch one side-income gig",
		"Run the full week on a cash-only budget",
		"Raise an invoice or ask for extra hours",
	},
}

func challengesFor(tier model.DifficultyTier) []string {
	base := challengeTable[tier]
	out := make([]string, len(base))
	copy(out, base)
	return out
}
