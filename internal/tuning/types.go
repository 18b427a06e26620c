package tuning

import (
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
)

// #region bounds
const (
	MinValue   = 1
	MaxValue   = 1000
	StartValue = 500

	maxCollisionRetries = 5
	convergedDiff       = 2
)
// #endregion bounds

// #region zone
// Zone holds the satisfaction-zone step sizes for one round.
type Zone struct {
	Total int `json:"total"`
	Half  int `json:"half"`
}
// #endregion zone

// #region observation
// Observation is one tried value and the classified feedback it received.
type Observation struct {
	TriedValue int
	Feedback   feedback.Definition
}

// Log is the ordered observation history of one parameter instance.
type Log []Observation
// #endregion observation

// #region phase
// Phase is the search phase inferred from a log.
type Phase string

const (
	PhaseEmpty     Phase = "empty"
	PhaseProbing   Phase = "probing"
	PhaseBisection Phase = "bisection"
	PhaseConverged Phase = "converged"
)
// #endregion phase

// #region estimate
// NotAvailable marks an estimate that has no OK observation to anchor it.
const NotAvailable = "N/A"

// Estimate is the final best guess for a parameter and its margin.
// Known is false until an OK observation exists; it then serializes as "N/A".
type Estimate struct {
	Known  bool
	Final  int
	Margin string
}

type estimateJSON struct {
	Final  json.RawMessage `json:"final"`
	Margin string          `json:"margin"`
}

// MarshalJSON writes {"final": <int>|"N/A", "margin": <string>}.
func (e Estimate) MarshalJSON() ([]byte, error) {
	if !e.Known {
		return json.Marshal(estimateJSON{Final: json.RawMessage(`"N/A"`), Margin: NotAvailable})
	}
	return json.Marshal(estimateJSON{Final: json.RawMessage(fmt.Sprintf("%d", e.Final)), Margin: e.Margin})
}

// UnmarshalJSON accepts either a number or "N/A" for final.
func (e *Estimate) UnmarshalJSON(data []byte) error {
	var raw estimateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal estimate: %w", err)
	}
	var n int
	if err := json.Unmarshal(raw.Final, &n); err != nil {
		*e = Estimate{Margin: raw.Margin}
		return nil
	}
	*e = Estimate{Known: true, Final: n, Margin: raw.Margin}
	return nil
}
// #endregion estimate
