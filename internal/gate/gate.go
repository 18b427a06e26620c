package gate

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/tuning"
)

// #region gate
// Gate checks an incoming lap against what the engine offered for it.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate flags statements and values that are inconsistent with the prior
// history. It never rejects: the round is always processed. Expected values
// are recomputed with this round's skill zone.
func (g *Gate) Evaluate(req round.Request) GateDecision {
	return g.EvaluateOffered(req, nil)
}

// EvaluateOffered is Evaluate against the suggestions actually issued in
// earlier rounds. Parameters missing from offered fall back to recomputing,
// so a skill change between rounds does not flag a followed suggestion.
func (g *Gate) EvaluateOffered(req round.Request, offered map[feedback.Parameter]int) GateDecision {
	params := make([]feedback.Parameter, 0, len(req.CurrentLapData))
	for p := range req.CurrentLapData {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i] < params[j] })

	zone := tuning.ComputeZone(float64(req.Driver.XP), float64(req.Driver.CT))

	var flags []Flag
	clean := 0
	for _, p := range params {
		category, ok := feedback.CategoryOf(p)
		if !ok {
			continue
		}
		input := req.CurrentLapData[p]
		prior := round.HistoryFor(p, req.History)
		before := len(flags)

		// 1. Vocabulary
		_, known := feedback.Lookup(category, input.Msg)
		if g.config.CheckVocabulary && !known {
			flags = append(flags, Flag{
				Parameter: p,
				Type:      FlagUnknownMessage,
				Reason:    fmt.Sprintf("%q is not in the %s catalog", input.Msg, category),
			})
		}

		// 2. Statement was on offer
		if g.config.CheckAllowed && known && !contains(tuning.AllowedMessages(category, prior), input.Msg) {
			flags = append(flags, Flag{
				Parameter: p,
				Type:      FlagFilteredMessage,
				Reason:    fmt.Sprintf("%q was not offered after %d observations", input.Msg, len(prior)),
			})
		}

		// 3. Range
		if g.config.CheckRange && (input.Acerto < tuning.MinValue || input.Acerto > tuning.MaxValue) {
			flags = append(flags, Flag{
				Parameter: p,
				Type:      FlagOutOfRange,
				Reason:    fmt.Sprintf("tried value %d outside [%d,%d]", input.Acerto, tuning.MinValue, tuning.MaxValue),
			})
		}

		// 4. Suggestion followed
		if g.config.CheckSuggestion {
			want, issued := offered[p]
			if !issued {
				want = tuning.Suggest(category, prior, zone)
			}
			if want != input.Acerto {
				flags = append(flags, Flag{
					Parameter: p,
					Type:      FlagOffSuggestion,
					Reason:    fmt.Sprintf("tried %d, suggested %d", input.Acerto, want),
				})
			}
		}

		if len(flags) == before {
			clean++
		}
	}

	var score float32 = 1
	if len(params) > 0 {
		score = float32(clean) / float32(len(params))
	}

	if len(flags) > 0 {
		return GateDecision{
			Action:    "flag",
			Reason:    fmt.Sprintf("%d flag(s): %s", len(flags), flags[0].Reason),
			Flags:     flags,
			SoftScore: score,
		}
	}
	return GateDecision{
		Action:    "commit",
		Reason:    "lap consistent with history",
		SoftScore: score,
	}
}

// #endregion gate

// #region helpers
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// #endregion helpers
