package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
)

// #region export

// FromSession builds a fixture from a stored session: its laps as played and
// the outputs recorded for them in the round log. Round IDs become r1, r2, ...
// in play order. The driver is taken from the first round.
func FromSession(store session.Store, sessionID string) (*Fixture, error) {
	sess, err := store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	recs, err := store.Rounds(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("session %s has no rounds", sessionID)
	}
	entries, err := store.RoundLog(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load round log: %w", err)
	}

	f := &Fixture{
		Description: fmt.Sprintf("exported from session %s (%s)", sess.ID, sess.Label),
		Driver:      FixtureDriver{XP: recs[0].XP, CT: recs[0].CT},
	}

	labels := make(map[string]int, len(recs))
	for i, rec := range recs {
		id := fmt.Sprintf("r%d", i+1)
		labels[rec.ID] = i

		lap := make(map[feedback.Parameter]round.LapInput, len(rec.Lap))
		for p, e := range rec.Lap {
			lap[p] = round.LapInput{Acerto: e.Acerto, Msg: e.Msg}
		}
		f.Rounds = append(f.Rounds, FixtureRound{RoundID: id, Lap: lap})
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			RoundID:     id,
			Suggestions: map[feedback.Parameter]int{},
			Finals:      map[feedback.Parameter]string{},
			Margins:     map[feedback.Parameter]string{},
		})
	}

	for _, e := range entries {
		i, ok := labels[e.RoundID]
		if !ok {
			continue
		}
		p := feedback.Parameter(e.Parameter)
		exp := &f.ExpectedResults[i]
		exp.Suggestions[p] = e.Suggestion
		exp.Finals[p] = e.Final
		exp.Margins[p] = e.Margin
	}
	return f, nil
}

// WriteFixture writes a fixture as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion export
