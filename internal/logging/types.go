package logging

import "time"

// #region round-entry
// RoundEntry is a single row in the round_log table: what one parameter saw
// and what the engine answered for it in one round.
type RoundEntry struct {
	SessionID  string    `json:"session_id"`
	RoundID    string    `json:"round_id"`
	Parameter  string    `json:"parameter"`
	Category   string    `json:"category"`
	TriedValue int       `json:"tried_value"`
	Message    string    `json:"message"`
	IsOK       bool      `json:"is_ok"`
	Phase      string    `json:"phase"` // "empty" | "probing" | "bisection" | "converged"
	Suggestion int       `json:"suggestion"`
	Final      string    `json:"final"`
	Margin     string    `json:"margin"`
	GateAction string    `json:"gate_action"` // "commit" | "flag"
	GateReason string    `json:"gate_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
// #endregion round-entry
