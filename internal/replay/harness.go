package replay

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/setup-tuner/internal/eval"
	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/gate"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/tuning"
)

// #region types
// Lap is a single recorded round for replay.
type Lap struct {
	RoundID string
	Input   map[feedback.Parameter]round.LapInput
}

// ReplayResult captures the outcome of replaying one lap through the pipeline.
type ReplayResult struct {
	RoundID  string
	Response round.Response
	Gate     gate.GateDecision
	Eval     eval.EvalResult
	Err      error
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalRounds int
	Flagged     int
	EvalFails   int
	Errors      int
	Converged   []feedback.Parameter
}

// Mismatch is one expected output that the replay did not reproduce.
type Mismatch struct {
	RoundID   string
	Parameter feedback.Parameter
	Field     string
	Want      string
	Got       string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s/%s %s: want %s, got %s", m.RoundID, m.Parameter, m.Field, m.Want, m.Got)
}
// #endregion types

// #region replay
// Replay feeds laps through gate → process → eval in order, growing the
// history the way a caller would. Operates entirely in memory.
func Replay(driver round.Driver, laps []Lap) []ReplayResult {
	gateInst := gate.NewGate(gate.DefaultGateConfig())
	evalInst := eval.NewEvalHarness(eval.DefaultEvalConfig())

	var history []round.Lap
	offered := make(map[feedback.Parameter]int)
	results := make([]ReplayResult, 0, len(laps))

	for _, lap := range laps {
		req := round.Request{Driver: driver, History: history, CurrentLapData: lap.Input}

		decision := gateInst.EvaluateOffered(req, offered)
		resp, err := round.Process(req)
		if err != nil {
			results = append(results, ReplayResult{RoundID: lap.RoundID, Gate: decision, Err: err})
			continue
		}

		results = append(results, ReplayResult{
			RoundID:  lap.RoundID,
			Response: resp,
			Gate:     decision,
			Eval:     evalInst.Run(resp),
		})
		history = append(history, resp.ProcessedLap)
		for p, v := range resp.NextSuggestions {
			offered[p] = v
		}
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalRounds: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errors++
			continue
		case !r.Eval.Passed:
			s.EvalFails++
		}
		if r.Gate.Action == "flag" {
			s.Flagged++
		}
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Err != nil {
			continue
		}
		for p, phase := range results[i].Response.Phases {
			if phase == tuning.PhaseConverged {
				s.Converged = append(s.Converged, p)
			}
		}
		break
	}
	sort.Slice(s.Converged, func(i, j int) bool { return s.Converged[i] < s.Converged[j] })
	return s
}
// #endregion replay

// #region compare
// Compare checks replay results against a fixture's expectations.
func Compare(results []ReplayResult, expected []FixtureExpectedResult) []Mismatch {
	var out []Mismatch
	if len(results) != len(expected) {
		return append(out, Mismatch{
			Field: "rounds",
			Want:  fmt.Sprintf("%d", len(expected)),
			Got:   fmt.Sprintf("%d", len(results)),
		})
	}
	for i, exp := range expected {
		got := results[i]
		if got.RoundID != exp.RoundID {
			out = append(out, Mismatch{RoundID: exp.RoundID, Field: "round_id", Want: exp.RoundID, Got: got.RoundID})
			continue
		}
		if got.Err != nil {
			out = append(out, Mismatch{RoundID: exp.RoundID, Field: "error", Want: "none", Got: got.Err.Error()})
			continue
		}
		for _, p := range sortedKeys(exp.Suggestions) {
			if want, have := exp.Suggestions[p], got.Response.NextSuggestions[p]; want != have {
				out = append(out, Mismatch{exp.RoundID, p, "suggestion", fmt.Sprintf("%d", want), fmt.Sprintf("%d", have)})
			}
		}
		for _, p := range sortedKeys(exp.Finals) {
			if want, have := exp.Finals[p], finalString(got.Response.FinalAnalysis[p]); want != have {
				out = append(out, Mismatch{exp.RoundID, p, "final", want, have})
			}
		}
		for _, p := range sortedKeys(exp.Margins) {
			if want, have := exp.Margins[p], got.Response.FinalAnalysis[p].Margin; want != have {
				out = append(out, Mismatch{exp.RoundID, p, "margin", want, have})
			}
		}
	}
	return out
}

func finalString(e tuning.Estimate) string {
	if !e.Known {
		return tuning.NotAvailable
	}
	return fmt.Sprintf("%d", e.Final)
}

func sortedKeys[V any](m map[feedback.Parameter]V) []feedback.Parameter {
	keys := make([]feedback.Parameter, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
// #endregion compare
