package gate

import "github.com/danielpatrickdp/setup-tuner/internal/feedback"

// #region flag-type
// FlagType enumerates consistency problems found in an incoming lap.
type FlagType string

const (
	FlagUnknownMessage  FlagType = "unknown_message"
	FlagFilteredMessage FlagType = "filtered_message"
	FlagOutOfRange      FlagType = "out_of_range"
	FlagOffSuggestion   FlagType = "off_suggestion"
)

// #endregion flag-type

// #region flag
// Flag is one detected inconsistency for one parameter.
type Flag struct {
	Parameter feedback.Parameter
	Type      FlagType
	Reason    string
}

// #endregion flag

// #region gate-config
// GateConfig selects which checks run. Flags never block a round.
type GateConfig struct {
	CheckVocabulary bool // statement exists in the category catalog
	CheckAllowed    bool // statement was on offer given the prior history
	CheckRange      bool // tried value within [1,1000]
	CheckSuggestion bool // tried value matches what the engine suggested
}

// DefaultGateConfig enables every check.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		CheckVocabulary: true,
		CheckAllowed:    true,
		CheckRange:      true,
		CheckSuggestion: true,
	}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action    string // "commit" | "flag"
	Reason    string
	Flags     []Flag
	SoftScore float32 // share of parameters with no flag, 0-1
}

// FlagsFor returns the flags raised for one parameter.
func (d GateDecision) FlagsFor(p feedback.Parameter) []Flag {
	var out []Flag
	for _, f := range d.Flags {
		if f.Parameter == p {
			out = append(out, f)
		}
	}
	return out
}

// #endregion gate-decision
