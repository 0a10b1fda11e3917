package model

import "time"

// CycleWeeks is the fixed length of a savings cycle.
const CycleWeeks = 7

// DifficultyTier labels how demanding a week's targets are.
type DifficultyTier string

const (
	TierBeginner     DifficultyTier = "beginner"
	TierIntermediate DifficultyTier = "intermediate"
	TierAdvanced     DifficultyTier = "advanced"
)

// WeekTarget is one period of the progressive savings plan.
type WeekTarget struct {
	WeekNumber    int            `json:"week_number"`
	SavingsTarget float64        `json:"savings_target"`
	IncomeTarget  float64        `json:"income_target"`
	Difficulty    DifficultyTier `json:"difficulty_tier"`
	Challenges    []string       `json:"challenges"`
}

// CyclePlan is the full 7-week plan for one user. Created at enrollment and
// read-only afterwards, except for the explicit re-plan operation.
type CyclePlan struct {
	UserID    string       `json:"user_id"`
	Weeks     []WeekTarget `json:"weeks"`
	CreatedAt time.Time    `json:"created_at"`
}

// Periods returns the number of weeks in the plan, falling back to
// CycleWeeks for an empty plan.
func (p *CyclePlan) Periods() int {
	if p == nil || len(p.Weeks) == 0 {
		return CycleWeeks
	}
	return len(p.Weeks)
}
