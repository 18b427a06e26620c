package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Driver          FixtureDriver           `json:"driver"`
	Rounds          []FixtureRound          `json:"rounds"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureDriver holds the skill inputs used for every round.
type FixtureDriver struct {
	XP float64 `json:"xp"`
	CT float64 `json:"ct"`
}

// FixtureRound is one recorded lap.
type FixtureRound struct {
	RoundID string                                `json:"round_id"`
	Lap     map[feedback.Parameter]round.LapInput `json:"lap"`
}

// FixtureExpectedResult captures the expected outputs per round. Parameters
// missing from a map are not checked.
type FixtureExpectedResult struct {
	RoundID     string                        `json:"round_id"`
	Suggestions map[feedback.Parameter]int    `json:"suggestions"`
	Finals      map[feedback.Parameter]string `json:"finals,omitempty"`
	Margins     map[feedback.Parameter]string `json:"margins,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToDriver converts the fixture driver to a round.Driver.
func (d FixtureDriver) ToDriver() round.Driver {
	return round.Driver{XP: round.LenientNumber(d.XP), CT: round.LenientNumber(d.CT)}
}

// ToLaps converts the recorded rounds to replay laps.
func (f *Fixture) ToLaps() []Lap {
	laps := make([]Lap, len(f.Rounds))
	for i, r := range f.Rounds {
		laps[i] = Lap{RoundID: r.RoundID, Input: r.Lap}
	}
	return laps
}

// #endregion fixture-loader
