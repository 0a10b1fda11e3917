package store

import (
	"context"
	"errors"

	"GoalSentinel/internal/model"
)

// ErrNotFound is returned when no record exists for a user id.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence collaborator. User ids are opaque keys; callers
// never assume anything about how records are laid out underneath.
type Store interface {
	// ListUsers enumerates every enrolled user id.
	ListUsers(ctx context.Context) ([]string, error)
	// GetSnapshot returns the user's current financial snapshot.
	GetSnapshot(ctx context.Context, userID string) (*model.FinancialSnapshot, error)
	// GetPlan returns the user's cycle plan.
	GetPlan(ctx context.Context, userID string) (*model.CyclePlan, error)
	// PutPlan stores a cycle plan, replacing any existing one.
	PutPlan(ctx context.Context, p *model.CyclePlan) error
	// GetResult returns the most recent analysis result for the user.
	GetResult(ctx context.Context, userID string) (*model.AnalysisResult, error)
	// PutResult overwrites the user's analysis result.
	PutResult(ctx context.Context, r *model.AnalysisResult) error
	Close() error
}
