package model

// MonitoringState describes the required monitoring intensity for a user.
type MonitoringState string

const (
	StatePassive    MonitoringState = "passive"
	StateActive     MonitoringState = "active"
	StateAggressive MonitoringState = "aggressive"
	StateEmergency  MonitoringState = "emergency"
)

// Severe reports whether the state warrants an unconditional alert.
func (s MonitoringState) Severe() bool {
	return s == StateAggressive || s == StateEmergency
}

// SpendingLimits caps spending while a lockdown is in effect.
type SpendingLimits struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// MandatoryAction is one required step of a lockdown protocol.
// Priority 1 is the most urgent.
type MandatoryAction struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Deadline string `json:"deadline"`
	Target   string `json:"target"`
}

// Lockdown is the restriction set applied on entering the Emergency state.
type Lockdown struct {
	LockedCategories []string          `json:"locked_categories"`
	SpendingLimits   SpendingLimits    `json:"spending_limits"`
	MandatoryActions []MandatoryAction `json:"mandatory_actions"`
}

// WatchdogState is the full monitoring verdict for one user. Lockdown is
// non-nil only in the Emergency state.
type WatchdogState struct {
	State              MonitoringState `json:"state"`
	RiskScore          int             `json:"risk_score"`
	Message            string          `json:"message"`
	RecommendedActions []string        `json:"recommended_actions"`
	Lockdown           *Lockdown       `json:"lockdown,omitempty"`
}
