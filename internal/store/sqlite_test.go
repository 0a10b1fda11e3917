package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"GoalSentinel/internal/model"

	"github.com/sirupsen/logrus"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap := &model.FinancialSnapshot{
		UserID:          "u1",
		CurrentSavings:  1500.5,
		SavingsGoal:     100000,
		MonthlyIncome:   4200,
		MonthlyExpenses: 3100,
		CurrentWeek:     3,
		Skills:          []string{"writing", "design"},
	}
	if err := s.PutSnapshot(ctx, snap); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}

	got, err := s.GetSnapshot(ctx, "u1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.CurrentSavings != snap.CurrentSavings || got.CurrentWeek != snap.CurrentWeek {
		t.Errorf("snapshot mismatch: %+v", got)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "writing" {
		t.Errorf("skills mismatch: %v", got.Skills)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0] != "u1" {
		t.Errorf("expected [u1], got %v", users)
	}
}

func TestSQLiteStore_PlanRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &model.CyclePlan{
		UserID:    "u1",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		Weeks: []model.WeekTarget{
			{WeekNumber: 1, SavingsTarget: 300, IncomeTarget: 390, Difficulty: model.TierBeginner, Challenges: []string{"log expenses"}},
			{WeekNumber: 2, SavingsTarget: 345, IncomeTarget: 448.5, Difficulty: model.TierBeginner, Challenges: []string{"log expenses"}},
		},
	}
	if err := s.PutPlan(ctx, p); err != nil {
		t.Fatalf("put plan: %v", err)
	}

	got, err := s.GetPlan(ctx, "u1")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(got.Weeks) != 2 || got.Weeks[1].SavingsTarget != 345 {
		t.Errorf("plan mismatch: %+v", got)
	}
}

func TestSQLiteStore_ResultOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &model.AnalysisResult{
		UserID:            "u1",
		GoalProgressPct:   10,
		WeeklyPerformance: model.PerformanceBehind,
		Watchdog:          model.WatchdogState{State: model.StateActive, RiskScore: 50},
		AnalyzedAt:        time.Unix(1700000000, 0),
	}
	if err := s.PutResult(ctx, first); err != nil {
		t.Fatalf("put first result: %v", err)
	}

	second := &model.AnalysisResult{
		UserID:            "u1",
		GoalProgressPct:   40,
		WeeklyPerformance: model.PerformanceOnTrack,
		Watchdog:          model.WatchdogState{State: model.StatePassive, RiskScore: 25},
		AnalyzedAt:        time.Unix(1700086400, 0),
	}
	if err := s.PutResult(ctx, second); err != nil {
		t.Fatalf("put second result: %v", err)
	}

	got, err := s.GetResult(ctx, "u1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if got.Watchdog.State != model.StatePassive || got.GoalProgressPct != 40 {
		t.Errorf("expected the second result to win: %+v", got)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSnapshot(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for snapshot, got %v", err)
	}
	if _, err := s.GetPlan(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for plan, got %v", err)
	}
	if _, err := s.GetResult(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for result, got %v", err)
	}
}
