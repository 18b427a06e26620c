package feedback

// #region imports
import (
	"fmt"
	"sort"
)

// #endregion

// #region catalog-tables

// Each table lists the extreme "too high" statements first and the extreme
// "too low" statements last, with the single OK statement in the middle.

var wingsCatalog = []Definition{
	{Message: "I'm losing far too much speed on the straights.", Direction: -1, Severity: 2, SignedRank: 3},
	{Message: "I'm losing some speed on the straights.", Direction: -1, Severity: 1, SignedRank: 2},
	{Message: "The car feels a little slow on the straights.", Direction: -1, Severity: 1, SignedRank: 1},
	{Message: "The wings are fine, I'm happy with them.", IsOK: true},
	{Message: "The car feels a little loose in the fast corners.", Direction: 1, Severity: 1, SignedRank: -1},
	{Message: "The car is not stable enough in the corners.", Direction: 1, Severity: 1, SignedRank: -2},
	{Message: "I can't keep the car on the road in the corners.", Direction: 1, Severity: 2, SignedRank: -3},
}

var engineCatalog = []Definition{
	{Message: "The engine is far too aggressive, I can't control the power.", Direction: -1, Severity: 2, SignedRank: 3},
	{Message: "The engine revs too high on the straights.", Direction: -1, Severity: 1, SignedRank: 2},
	{Message: "The engine feels slightly over-revved.", Direction: -1, Severity: 1, SignedRank: 1},
	{Message: "The engine is fine, I'm happy with it.", IsOK: true},
	{Message: "The engine feels slightly short of power.", Direction: 1, Severity: 1, SignedRank: -1},
	{Message: "The engine lacks power on the straights.", Direction: 1, Severity: 1, SignedRank: -2},
	{Message: "The engine has no power at all.", Direction: 1, Severity: 2, SignedRank: -3},
}

var brakesCatalog = []Definition{
	{Message: "The front wheels lock up constantly under braking.", Direction: -1, Severity: 2, SignedRank: 3},
	{Message: "The brakes are too biased to the front.", Direction: -1, Severity: 1, SignedRank: 2},
	{Message: "The front brakes feel a little sharp.", Direction: -1, Severity: 1, SignedRank: 1},
	{Message: "The brakes are fine, I'm happy with them.", IsOK: true},
	{Message: "The rear steps out slightly under braking.", Direction: 1, Severity: 1, SignedRank: -1},
	{Message: "The brakes are too biased to the rear.", Direction: 1, Severity: 1, SignedRank: -2},
	{Message: "The car spins whenever I brake hard.", Direction: 1, Severity: 2, SignedRank: -3},
}

var gearboxCatalog = []Definition{
	{Message: "I hit the rev limiter long before the braking zones.", Direction: -1, Severity: 2, SignedRank: 3},
	{Message: "The gears are too short for the straights.", Direction: -1, Severity: 1, SignedRank: 2},
	{Message: "Top gear runs out slightly early.", Direction: -1, Severity: 1, SignedRank: 1},
	{Message: "The gearbox is fine, I'm happy with it.", IsOK: true},
	{Message: "Acceleration out of slow corners is slightly lazy.", Direction: 1, Severity: 1, SignedRank: -1},
	{Message: "The gears are too long, the car is slow out of corners.", Direction: 1, Severity: 1, SignedRank: -2},
	{Message: "I never reach top gear anywhere on the lap.", Direction: 1, Severity: 2, SignedRank: -3},
}

var suspensionCatalog = []Definition{
	{Message: "The car is far too stiff, it bounces over every kerb.", Direction: -1, Severity: 2, SignedRank: 3},
	{Message: "The suspension is too stiff over the bumps.", Direction: -1, Severity: 1, SignedRank: 2},
	{Message: "The car feels a little nervous over the kerbs.", Direction: -1, Severity: 1, SignedRank: 1},
	{Message: "The suspension is fine, I'm happy with it.", IsOK: true},
	{Message: "The car rolls slightly in the long corners.", Direction: 1, Severity: 1, SignedRank: -1},
	{Message: "The suspension is too soft, the car wallows.", Direction: 1, Severity: 1, SignedRank: -2},
	{Message: "The car is far too soft, it bottoms out everywhere.", Direction: 1, Severity: 2, SignedRank: -3},
}

var catalogs = map[Category][]Definition{
	CategoryWings:      wingsCatalog,
	CategoryEngine:     engineCatalog,
	CategoryBrakes:     brakesCatalog,
	CategoryGearbox:    gearboxCatalog,
	CategorySuspension: suspensionCatalog,
}

// #endregion

// #region polarity

// exploreDirection is the step sign used when only OK feedback is known.
var exploreDirection = map[Category]int{
	CategoryWings:      -1,
	CategoryEngine:     1,
	CategoryBrakes:     -1,
	CategoryGearbox:    1,
	CategorySuspension: -1,
}

// ExploreDirection returns the category's exploration sign, or 0 for an unknown category.
func ExploreDirection(c Category) int {
	return exploreDirection[c]
}

// #endregion

// #region parameters

var parameterCategory = map[Parameter]Category{
	ParamFrontWing:  CategoryWings,
	ParamRearWing:   CategoryWings,
	ParamEngine:     CategoryEngine,
	ParamBrakes:     CategoryBrakes,
	ParamGearbox:    CategoryGearbox,
	ParamSuspension: CategorySuspension,
}

// CategoryOf returns the category a parameter instance belongs to.
func CategoryOf(p Parameter) (Category, bool) {
	c, ok := parameterCategory[p]
	return c, ok
}

// Parameters lists every known parameter instance, sorted by name.
func Parameters() []Parameter {
	out := make([]Parameter, 0, len(parameterCategory))
	for p := range parameterCategory {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// #endregion

// #region lookup

// Definitions returns a copy of the category's catalog in authored order.
func Definitions(c Category) []Definition {
	src := catalogs[c]
	out := make([]Definition, len(src))
	copy(out, src)
	return out
}

// Messages returns every statement of the category in authored order.
func Messages(c Category) []string {
	src := catalogs[c]
	out := make([]string, len(src))
	for i, d := range src {
		out[i] = d.Message
	}
	return out
}

// OK returns the category's neutral definition.
func OK(c Category) Definition {
	for _, d := range catalogs[c] {
		if d.IsOK {
			return d
		}
	}
	return Definition{IsOK: true}
}

// Lookup finds a definition by exact message text.
func Lookup(c Category, message string) (Definition, bool) {
	for _, d := range catalogs[c] {
		if d.Message == message {
			return d, true
		}
	}
	return Definition{}, false
}

// #endregion

// #region validate

// Validate checks the shape of every catalog: one OK entry, the same number of
// entries on each side, and a non-zero direction on every corrective entry.
func Validate() error {
	for _, c := range Categories() {
		defs, ok := catalogs[c]
		if !ok {
			return fmt.Errorf("category %s: no catalog", c)
		}
		if _, ok := exploreDirection[c]; !ok {
			return fmt.Errorf("category %s: no exploration direction", c)
		}
		var oks, high, low int
		for _, d := range defs {
			switch {
			case d.IsOK:
				oks++
				if d.Direction != 0 || d.Severity != 0 {
					return fmt.Errorf("category %s: ok entry %q carries a correction", c, d.Message)
				}
			case d.Direction < 0:
				high++
			case d.Direction > 0:
				low++
			default:
				return fmt.Errorf("category %s: entry %q has no direction", c, d.Message)
			}
		}
		if oks != 1 {
			return fmt.Errorf("category %s: expected 1 ok entry, got %d", c, oks)
		}
		if high != low {
			return fmt.Errorf("category %s: unbalanced scale %d/%d", c, high, low)
		}
	}
	return nil
}

// #endregion
