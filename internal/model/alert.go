package model

import "time"

// AlertSchemaVersion lets downstream notification consumers evolve
// independently of the dispatcher.
const AlertSchemaVersion = 1

// Alert is the record handed to the notification collaborator.
type Alert struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	State              MonitoringState `json:"state"`
	RiskScore          int             `json:"risk_score"`
	RecommendedActions []string        `json:"recommended_actions"`
	AnalyzedAt         time.Time       `json:"analyzed_at"`
	SchemaVersion      int             `json:"schema_version"`
}
