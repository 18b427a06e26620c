package tuning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
)

var zone200x100 = Zone{Total: 83, Half: 42}

// obs builds an observation from a catalog statement.
func obs(t *testing.T, c feedback.Category, value int, message string) Observation {
	t.Helper()
	d, ok := feedback.Lookup(c, message)
	require.True(t, ok, "unknown statement %q for %s", message, c)
	return Observation{TriedValue: value, Feedback: d}
}

func ok(t *testing.T, c feedback.Category, value int) Observation {
	t.Helper()
	return Observation{TriedValue: value, Feedback: feedback.OK(c)}
}

const (
	engineNoPower    = "The engine has no power at all."
	engineLacksPower = "The engine lacks power on the straights."
	engineOverRevved = "The engine feels slightly over-revved."
	wingsTooSlow     = "I'm losing far too much speed on the straights."
	wingsLoose       = "The car feels a little loose in the fast corners."
	wingsUnstable    = "The car is not stable enough in the corners."
)

// #region zone

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 42, RoundHalfUp(41.5))
	assert.Equal(t, 41, RoundHalfUp(41.4))
	assert.Equal(t, 0, RoundHalfUp(0))
	assert.Equal(t, 1, RoundHalfUp(0.5))
	assert.Equal(t, 510, RoundHalfUp(510))
}

func TestRoundHalfUpSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt32, RoundHalfUp(1e300))
	assert.Equal(t, -math.MaxInt32, RoundHalfUp(-1e300))
	assert.Equal(t, 0, RoundHalfUp(math.NaN()))
}

func TestComputeZoneHugeSkillDoesNotOverflow(t *testing.T) {
	z := ComputeZone(1e300, 0)
	assert.Equal(t, -math.MaxInt32, z.Total)
	assert.Equal(t, -1073741823, z.Half)
}

func TestComputeZone(t *testing.T) {
	assert.Equal(t, Zone{Total: 83, Half: 42}, ComputeZone(200, 100))
	assert.Equal(t, Zone{Total: 136, Half: 68}, ComputeZone(0, 0), "missing skills give the degenerate zone")
	assert.Equal(t, Zone{Total: 136, Half: 68}, ComputeZone(math.NaN(), math.Inf(1)), "non-finite skills count as 0")
}

// #endregion zone

// #region suggest

func TestSuggestEmptyHistoryStartsAtMidpoint(t *testing.T) {
	for _, c := range feedback.Categories() {
		assert.Equal(t, StartValue, Suggest(c, nil, zone200x100), "category %s", c)
	}
}

func TestSuggestRepeatedOKHalvesStep(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{ok(t, c, 500)}
	assert.Equal(t, 542, Suggest(c, log, zone200x100))

	log = append(log, ok(t, c, 542))
	assert.Equal(t, 563, Suggest(c, log, zone200x100))

	log = append(log, ok(t, c, 563))
	assert.Equal(t, 574, Suggest(c, log, zone200x100))
	assert.Equal(t, PhaseProbing, PhaseOf(log))
}

func TestSuggestExploresDownwardForWings(t *testing.T) {
	c := feedback.CategoryWings
	assert.Equal(t, 458, Suggest(c, Log{ok(t, c, 500)}, zone200x100))
	assert.Equal(t, MinValue, Suggest(c, Log{ok(t, c, 1)}, zone200x100))
}

func TestSuggestAfterNOKStepsByTotalTimesSeverity(t *testing.T) {
	engine := feedback.CategoryEngine
	assert.Equal(t, 583, Suggest(engine, Log{obs(t, engine, 500, engineLacksPower)}, zone200x100))
	assert.Equal(t, 666, Suggest(engine, Log{obs(t, engine, 500, engineNoPower)}, zone200x100))
	assert.Equal(t, MaxValue, Suggest(engine, Log{obs(t, engine, 990, engineNoPower)}, zone200x100))

	wings := feedback.CategoryWings
	assert.Equal(t, 334, Suggest(wings, Log{obs(t, wings, 500, wingsTooSlow)}, zone200x100))
}

func TestSuggestExploreSkipsTriedValues(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{ok(t, c, 521), ok(t, c, 500)}
	assert.Equal(t, 542, Suggest(c, log, zone200x100))
}

func TestSuggestExploreFallsBackToLastValueAtUnitStep(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{}
	for v := 501; v <= 506; v++ {
		log = append(log, ok(t, c, v))
	}
	log = append(log, ok(t, c, 500))
	assert.Equal(t, 500, Suggest(c, log, Zone{Total: 2, Half: 1}))
}

func TestSuggestExploreReturnsCollisionAtLargeStep(t *testing.T) {
	c := feedback.CategoryEngine
	// seven OKs: step 400 -> 200 -> 100 -> 50 -> 25 -> 13 -> 7
	log := Log{}
	for v := 507; v <= 542; v += 7 {
		log = append(log, ok(t, c, v))
	}
	log = append(log, ok(t, c, 500))
	assert.Equal(t, 542, Suggest(c, log, Zone{Total: 800, Half: 400}))
}

func TestSuggestBisectsBracket(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{ok(t, c, 500), obs(t, c, 520, engineOverRevved)}
	assert.Equal(t, 510, Suggest(c, log, zone200x100))
	assert.Equal(t, PhaseBisection, PhaseOf(log))
}

func TestSuggestConvergedReturnsLastOK(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{ok(t, c, 500), obs(t, c, 502, engineOverRevved)}
	assert.Equal(t, 500, Suggest(c, log, zone200x100))
	assert.Equal(t, PhaseConverged, PhaseOf(log))
}

func TestSuggestBisectSkipsTriedMidpoint(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{
		obs(t, c, 510, engineOverRevved),
		ok(t, c, 500),
		obs(t, c, 520, engineOverRevved),
	}
	assert.Equal(t, 511, Suggest(c, log, zone200x100))
}

func TestSuggestBisectScansBelowMidpointWhenUpperHalfTried(t *testing.T) {
	c := feedback.CategoryEngine
	var log Log
	for v := 505; v <= 509; v++ {
		log = append(log, obs(t, c, v, engineOverRevved))
	}
	log = append(log, ok(t, c, 500), obs(t, c, 510, engineOverRevved))
	assert.Equal(t, 504, Suggest(c, log, zone200x100))
}

func TestSuggestBisectExhaustedFallsBackToLastOK(t *testing.T) {
	c := feedback.CategoryEngine
	log := Log{
		obs(t, c, 501, engineOverRevved),
		obs(t, c, 502, engineOverRevved),
		obs(t, c, 503, engineOverRevved),
		ok(t, c, 500),
		obs(t, c, 504, engineOverRevved),
	}
	assert.Equal(t, 500, Suggest(c, log, zone200x100))
}

func TestSuggestUsesMostRecentOfEachPolarity(t *testing.T) {
	c := feedback.CategoryWings
	// bracket is lastOK=479, lastNOK=458
	log := Log{
		ok(t, c, 500),
		obs(t, c, 458, wingsUnstable),
		ok(t, c, 479),
	}
	assert.Equal(t, 469, Suggest(c, log, zone200x100))
}

// #endregion suggest

// #region allowed

func TestAllowedMessagesBeforeBracketIsFullCatalog(t *testing.T) {
	c := feedback.CategoryWings
	assert.Equal(t, feedback.Messages(c), AllowedMessages(c, nil))
	assert.Equal(t, feedback.Messages(c), AllowedMessages(c, Log{ok(t, c, 500)}))
	assert.Equal(t, feedback.Messages(c), AllowedMessages(c, Log{obs(t, c, 500, wingsUnstable)}))
}

func TestAllowedMessagesInBracket(t *testing.T) {
	wings := feedback.CategoryWings
	log := Log{ok(t, wings, 500), obs(t, wings, 458, wingsUnstable)}
	assert.Equal(t, []string{feedback.OK(wings).Message, wingsLoose}, AllowedMessages(wings, log))

	engine := feedback.CategoryEngine
	log = Log{ok(t, engine, 500), obs(t, engine, 520, engineOverRevved)}
	assert.Equal(t, []string{feedback.OK(engine).Message, engineOverRevved}, AllowedMessages(engine, log))
}

// #endregion allowed

// #region estimate

func TestEstimateNoOK(t *testing.T) {
	c := feedback.CategoryEngine
	assert.Equal(t, Estimate{Margin: NotAvailable}, EstimateFinal(c, nil, zone200x100))
	assert.Equal(t, Estimate{Margin: NotAvailable}, EstimateFinal(c, Log{obs(t, c, 500, engineLacksPower)}, zone200x100))
}

func TestEstimateOKOnly(t *testing.T) {
	engine := feedback.CategoryEngine
	assert.Equal(t, Estimate{Known: true, Final: 542, Margin: "±42"}, EstimateFinal(engine, Log{ok(t, engine, 500)}, zone200x100))

	wings := feedback.CategoryWings
	assert.Equal(t, Estimate{Known: true, Final: 458, Margin: "±42"}, EstimateFinal(wings, Log{ok(t, wings, 500)}, zone200x100))
}

func TestEstimateBracketed(t *testing.T) {
	c := feedback.CategoryEngine

	above := Log{ok(t, c, 500), obs(t, c, 520, engineOverRevved)}
	assert.Equal(t, Estimate{Known: true, Final: 458, Margin: "±10"}, EstimateFinal(c, above, zone200x100))

	below := Log{obs(t, c, 500, engineLacksPower), ok(t, c, 583)}
	assert.Equal(t, Estimate{Known: true, Final: 625, Margin: "±41"}, EstimateFinal(c, below, zone200x100))

	converged := Log{ok(t, c, 500), obs(t, c, 502, engineOverRevved)}
	assert.Equal(t, Estimate{Known: true, Final: 458, Margin: "0"}, EstimateFinal(c, converged, zone200x100))
}

func TestEstimateJSON(t *testing.T) {
	data, err := Estimate{Margin: NotAvailable}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"final":"N/A","margin":"N/A"}`, string(data))

	data, err = Estimate{Known: true, Final: 542, Margin: "±42"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"final":542,"margin":"±42"}`, string(data))

	var e Estimate
	require.NoError(t, e.UnmarshalJSON(data))
	assert.Equal(t, Estimate{Known: true, Final: 542, Margin: "±42"}, e)

	require.NoError(t, e.UnmarshalJSON([]byte(`{"final":"N/A","margin":"N/A"}`)))
	assert.Equal(t, Estimate{Margin: NotAvailable}, e)
}

// #endregion estimate

func TestPhaseOfEmpty(t *testing.T) {
	assert.Equal(t, PhaseEmpty, PhaseOf(nil))
}
