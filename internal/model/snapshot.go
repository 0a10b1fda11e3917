package model

// FinancialSnapshot is the per-user input to an analysis run. It is owned by
// the persistence collaborator and treated as immutable for the duration of
// the run.
type FinancialSnapshot struct {
	UserID          string   `json:"user_id"`
	CurrentSavings  float64  `json:"current_savings"`
	SavingsGoal     float64  `json:"savings_goal"`
	MonthlyIncome   float64  `json:"monthly_income"`
	MonthlyExpenses float64  `json:"monthly_expenses"`
	CurrentWeek     int      `json:"current_week"` // 1..CycleWeeks
	Skills          []string `json:"skills"`
}

// Defaults substituted for zero or out-of-range snapshot fields.
const (
	DefaultMonthlyIncome = 3000.0
	DefaultSavingsGoal   = 100000.0
	DefaultCurrentWeek   = 1
)
