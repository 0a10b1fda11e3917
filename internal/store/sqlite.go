package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"GoalSentinel/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore backs the persistence collaborator with a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Logger
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string, log *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard readers don't block the nightly sweep's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			user_id          TEXT PRIMARY KEY,
			current_savings  REAL,
			savings_goal     REAL,
			monthly_income   REAL,
			monthly_expenses REAL,
			current_week     INTEGER,
			skills           TEXT,
			updated_at       INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS plans (
			user_id    TEXT PRIMARY KEY,
			weeks      TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS results (
			user_id     TEXT PRIMARY KEY,
			state       TEXT,
			risk_score  INTEGER,
			performance TEXT,
			progress    REAL,
			failed      INTEGER,
			payload     TEXT NOT NULL,
			analyzed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_state ON results(state)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT current_savings, savings_goal, monthly_income,
		monthly_expenses, current_week, skills FROM snapshots WHERE user_id = ?`, userID)

	snap := &model.FinancialSnapshot{UserID: userID}
	var skills sql.NullString
	err := row.Scan(&snap.CurrentSavings, &snap.SavingsGoal, &snap.MonthlyIncome,
		&snap.MonthlyExpenses, &snap.CurrentWeek, &skills)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", userID, err)
	}
	if skills.Valid && skills.String != "" {
		if err := json.Unmarshal([]byte(skills.String), &snap.Skills); err != nil {
			return nil, fmt.Errorf("decode skills for %s: %w", userID, err)
		}
	}
	return snap, nil
}

// PutSnapshot upserts a snapshot and enrolls the user if new. Used by the
// ingestion glue, not by the analyzer.
func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *model.FinancialSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	skills, err := json.Marshal(snap.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	now := time.Now().Unix()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		snap.UserID, now); err != nil {
		return fmt.Errorf("enroll user %s: %w", snap.UserID, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots
		(user_id, current_savings, savings_goal, monthly_income, monthly_expenses, current_week, skills, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_savings=excluded.current_savings,
			savings_goal=excluded.savings_goal,
			monthly_income=excluded.monthly_income,
			monthly_expenses=excluded.monthly_expenses,
			current_week=excluded.current_week,
			skills=excluded.skills,
			updated_at=excluded.updated_at`,
		snap.UserID, snap.CurrentSavings, snap.SavingsGoal, snap.MonthlyIncome,
		snap.MonthlyExpenses, snap.CurrentWeek, string(skills), now)
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", snap.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) GetPlan(ctx context.Context, userID string) (*model.CyclePlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT weeks, created_at FROM plans WHERE user_id = ?`, userID)

	var weeks string
	var createdAt int64
	err := row.Scan(&weeks, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", userID, err)
	}

	p := &model.CyclePlan{UserID: userID, CreatedAt: time.Unix(createdAt, 0).UTC()}
	if err := json.Unmarshal([]byte(weeks), &p.Weeks); err != nil {
		return nil, fmt.Errorf("decode plan for %s: %w", userID, err)
	}
	return p, nil
}

func (s *SQLiteStore) PutPlan(ctx context.Context, p *model.CyclePlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks, err := json.Marshal(p.Weeks)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO plans (user_id, weeks, created_at)
		VALUES (?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET weeks=excluded.weeks, created_at=excluded.created_at`,
		p.UserID, string(weeks), p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("put plan %s: %w", p.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) GetResult(ctx context.Context, userID string) (*model.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE user_id = ?`, userID)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", userID, err)
	}

	var r model.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decode result for %s: %w", userID, err)
	}
	return &r, nil
}

func (s *SQLiteStore) PutResult(ctx context.Context, r *model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	failed := 0
	if r.AnalysisFailed {
		failed = 1
	}

	// Flat columns duplicate a few fields for dashboard queries; the payload
	// is the source of truth.
	_, err = s.db.ExecContext(ctx, `INSERT INTO results
		(user_id, state, risk_score, performance, progress, failed, payload, analyzed_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			state=excluded.state,
			risk_score=excluded.risk_score,
			performance=excluded.performance,
			progress=excluded.progress,
			failed=excluded.failed,
			payload=excluded.payload,
			analyzed_at=excluded.analyzed_at`,
		r.UserID, string(r.Watchdog.State), r.Watchdog.RiskScore,
		string(r.WeeklyPerformance), r.GoalProgressPct, failed,
		string(payload), r.AnalyzedAt.Unix())
	if err != nil {
		return fmt.Errorf("put result %s: %w", r.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
