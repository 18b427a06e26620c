package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/danielpatrickdp/setup-tuner/internal/eval"
	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/gate"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// #region open
// Open opens the store for a backend name ("sqlite" or "bolt"). An empty
// name means sqlite and "bbolt" is an alias for bolt.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteStore(path)
	case "bolt", "bbolt":
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// KnownBackend reports whether Open accepts the backend name.
func KnownBackend(backend string) bool {
	switch backend {
	case "", "sqlite", "bolt", "bbolt":
		return true
	}
	return false
}
// #endregion open

// #region service
// Service plays rounds for stored sessions. It owns the history the engine
// is handed; the engine itself stays a pure function of its request.
type Service struct {
	store   Store
	gate    *gate.Gate
	harness *eval.EvalHarness
}

// Outcome is everything one played round produced.
type Outcome struct {
	Response round.Response
	Round    RoundRecord
	Gate     gate.GateDecision
	Eval     eval.EvalResult
}

// NewService wires a store with the consistency gate and output checks.
func NewService(store Store, g *gate.Gate, h *eval.EvalHarness) *Service {
	return &Service{store: store, gate: g, harness: h}
}

// Store returns the backing store.
func (s *Service) Store() Store {
	return s.store
}
// #endregion service

// #region play
// Play loads the session history, processes the lap and commits the result.
func (s *Service) Play(sessionID string, driver round.Driver, lap map[feedback.Parameter]round.LapInput) (Outcome, error) {
	start := time.Now()

	if _, err := s.store.GetSession(sessionID); err != nil {
		return Outcome{}, err
	}
	history, err := History(s.store, sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load history: %w", err)
	}

	req := round.Request{Driver: driver, History: history, CurrentLapData: lap}
	decision := s.gate.EvaluateOffered(req, s.offered(sessionID))

	resp, err := round.Process(req)
	if err != nil {
		return Outcome{}, err
	}
	result := s.harness.Run(resp)
	if !result.Passed {
		logging.Error().
			Add(logging.SessionID(sessionID)).
			Add(logging.Reason(result.Reason)).
			Msg("round output failed checks")
	}

	rec, err := s.store.AppendRound(RoundRecord{
		SessionID: sessionID,
		XP:        float64(driver.XP),
		CT:        float64(driver.CT),
		Lap:       resp.ProcessedLap,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("commit round: %w", err)
	}

	params := make([]feedback.Parameter, 0, len(resp.ProcessedLap))
	for p := range resp.ProcessedLap {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i] < params[j] })

	for _, p := range params {
		category, _ := feedback.CategoryOf(p)
		entry := resp.ProcessedLap[p]
		est := resp.FinalAnalysis[p]

		gateAction, gateReason := "commit", ""
		if flags := decision.FlagsFor(p); len(flags) > 0 {
			gateAction, gateReason = "flag", flags[0].Reason
		}
		final := "N/A"
		if est.Known {
			final = fmt.Sprintf("%d", est.Final)
		}

		err := s.store.LogRound(logging.RoundEntry{
			SessionID:  sessionID,
			RoundID:    rec.ID,
			Parameter:  string(p),
			Category:   string(category),
			TriedValue: entry.Acerto,
			Message:    entry.Msg,
			IsOK:       entry.IsOK,
			Phase:      string(resp.Phases[p]),
			Suggestion: resp.NextSuggestions[p],
			Final:      final,
			Margin:     est.Margin,
			GateAction: gateAction,
			GateReason: gateReason,
			CreatedAt:  rec.CreatedAt,
		})
		if err != nil {
			logging.Warn().
				Add(logging.SessionID(sessionID)).
				Add(logging.Parameter(string(p))).
				Add(logging.ErrorField(err)).
				Msg("provenance write failed")
		}
	}

	logging.Info().
		Add(logging.SessionID(sessionID)).
		Add(logging.RoundID(rec.ID)).
		Add(logging.Count("seq", rec.Seq)).
		Add(logging.Zone(resp.Zone.Total, resp.Zone.Half)).
		Add(logging.Reason(decision.Reason)).
		Add(logging.Duration(time.Since(start))).
		Msg("round committed")

	return Outcome{Response: resp, Round: rec, Gate: decision, Eval: result}, nil
}

// offered returns the latest suggestion issued per parameter from the round
// log. A log that cannot be read yields nil and the gate recomputes.
func (s *Service) offered(sessionID string) map[feedback.Parameter]int {
	entries, err := s.store.RoundLog(sessionID)
	if err != nil {
		logging.Warn().
			Add(logging.SessionID(sessionID)).
			Add(logging.ErrorField(err)).
			Msg("round log unavailable for gate")
		return nil
	}
	out := make(map[feedback.Parameter]int)
	for _, e := range entries {
		out[feedback.Parameter(e.Parameter)] = e.Suggestion
	}
	return out
}
// #endregion play
