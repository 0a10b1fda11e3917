package model

import "time"

// Performance classifies a user's pace against the plan for the week.
type Performance string

const (
	PerformanceAhead      Performance = "ahead"
	PerformanceOnTrack    Performance = "on_track"
	PerformanceBehind     Performance = "behind"
	PerformancePoor       Performance = "poor"
	PerformanceNotStarted Performance = "not_started"
)

// Adjustment scales next week's savings target.
type Adjustment struct {
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
}

// AnalysisResult is the per-user output of one batch sweep. It is written
// exclusively by the analyzer and overwritten on every run; all other
// consumers read it as-is.
type AnalysisResult struct {
	UserID             string        `json:"user_id"`
	GoalProgressPct    float64       `json:"goal_progress_pct"`
	WeeklyPerformance  Performance   `json:"weekly_performance"`
	Watchdog           WatchdogState `json:"watchdog"`
	Recommendations    []string      `json:"recommendations"`
	NextWeekAdjustment Adjustment    `json:"next_week_adjustment"`
	AnalyzedAt         time.Time     `json:"analyzed_at"`
	AnalysisFailed     bool          `json:"analysis_failed"`
}

// RunSummary reports the outcome of one full batch sweep.
type RunSummary struct {
	RunID                    string    `json:"run_id"`
	UsersAnalyzed            int       `json:"users_analyzed"`
	HighRiskCount            int       `json:"high_risk_count"`
	OnTrackCount             int       `json:"on_track_count"`
	RecommendationsGenerated int       `json:"recommendations_generated"`
	FailedUsers              []string  `json:"failed_users,omitempty"`
	StartedAt                time.Time `json:"started_at"`
	FinishedAt               time.Time `json:"finished_at"`
}
