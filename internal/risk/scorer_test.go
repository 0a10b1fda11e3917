package risk

import (
	"testing"

	"GoalSentinel/internal/model"
)

func sevenWeekPlan() *model.CyclePlan {
	weeks := make([]model.WeekTarget, model.CycleWeeks)
	for i := range weeks {
		weeks[i] = model.WeekTarget{WeekNumber: i + 1, SavingsTarget: 300}
	}
	return &model.CyclePlan{UserID: "u1", Weeks: weeks}
}

func TestScore_EarlyCycleLowSavings(t *testing.T) {
	snap := &model.FinancialSnapshot{
		CurrentSavings:  1000,
		SavingsGoal:     100000,
		MonthlyIncome:   3000,
		MonthlyExpenses: 2200,
		CurrentWeek:     1,
	}
	// savings_ratio 0.01 (+3), expense_ratio 0.733 (+1), schedule 1/7 (+0)
	score, factors := Score(snap, sevenWeekPlan())
	if score != 50 {
		t.Errorf("expected score 50, got %d", score)
	}
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}
}

func TestScore_ZeroIncomeWorstCaseExpenseRatio(t *testing.T) {
	snap := &model.FinancialSnapshot{
		CurrentSavings:  60000,
		SavingsGoal:     100000,
		MonthlyIncome:   0,
		MonthlyExpenses: 500,
		CurrentWeek:     1,
	}
	// expense_ratio forced to 1.0 (+3) regardless of the literal 500
	_, factors := Score(snap, sevenWeekPlan())
	var expense Factor
	for _, f := range factors {
		if f.Name == "expense pressure" {
			expense = f
		}
	}
	if expense.Points != 3 {
		t.Errorf("expected worst-case expense points 3, got %d", expense.Points)
	}
}

func TestScore_MaxPointsCapsAtHundred(t *testing.T) {
	snap := &model.FinancialSnapshot{
		CurrentSavings:  500,
		SavingsGoal:     100000,
		MonthlyIncome:   1000,
		MonthlyExpenses: 950,
		CurrentWeek:     5,
	}
	// savings +3, expense +3, schedule +2 = 8 points
	score, _ := Score(snap, sevenWeekPlan())
	if score != 100 {
		t.Errorf("expected score 100 at max points, got %d", score)
	}
}

func TestScore_RangeInvariant(t *testing.T) {
	cycle := sevenWeekPlan()
	savings := []float64{-100, 0, 500, 50000, 100000, 200000}
	incomes := []float64{-1, 0, 1000, 3000, 10000}
	expenses := []float64{0, 500, 2900, 9500, 20000}

	for _, s := range savings {
		for _, inc := range incomes {
			for _, exp := range expenses {
				for week := 1; week <= model.CycleWeeks; week++ {
					snap := &model.FinancialSnapshot{
						CurrentSavings:  s,
						SavingsGoal:     100000,
						MonthlyIncome:   inc,
						MonthlyExpenses: exp,
						CurrentWeek:     week,
					}
					score, _ := Score(snap, cycle)
					if score < 0 || score > 100 {
						t.Fatalf("score %d out of range for savings=%.0f income=%.0f expenses=%.0f week=%d",
							score, s, inc, exp, week)
					}
				}
			}
		}
	}
}

func TestScore_ZeroGoalMeansZeroSavingsRatio(t *testing.T) {
	snap := &model.FinancialSnapshot{
		CurrentSavings:  5000,
		SavingsGoal:     0,
		MonthlyIncome:   10000,
		MonthlyExpenses: 1000,
		CurrentWeek:     1,
	}
	// ratio 0 < 0.1 → +3, everything else quiet
	score, _ := Score(snap, sevenWeekPlan())
	if score != 38 {
		t.Errorf("expected score 38, got %d", score)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in      int
		out     int
		changed bool
	}{
		{-5, 0, true},
		{0, 0, false},
		{50, 50, false},
		{100, 100, false},
		{130, 100, true},
	}
	for _, tt := range tests {
		got, changed := Clamp(tt.in)
		if got != tt.out || changed != tt.changed {
			t.Errorf("Clamp(%d) = (%d, %v), expected (%d, %v)", tt.in, got, changed, tt.out, tt.changed)
		}
	}
}
