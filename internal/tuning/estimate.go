package tuning

import (
	"fmt"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
)

// #region estimate
// EstimateFinal returns the best guess for the ideal value and its margin.
func EstimateFinal(c feedback.Category, log Log, zone Zone) Estimate {
	s := scanLog(log)
	if !s.hasOK {
		return Estimate{Margin: NotAvailable}
	}

	if !s.hasNOK {
		return Estimate{
			Known:  true,
			Final:  clamp(s.lastOK + feedback.ExploreDirection(c)*zone.Half),
			Margin: plusMinus(zone.Half),
		}
	}

	// Neither branch consults the category's exploration direction.
	// TODO: confirm with product whether the NOK-below branch should step
	// by ExploreDirection instead of always stepping up.
	var final int
	if s.lastNOK > s.lastOK {
		final = clamp(s.lastOK - zone.Half)
	} else {
		final = clamp(s.lastOK + zone.Half)
	}

	margin := "0"
	if d := s.diff(); d > convergedDiff {
		margin = plusMinus(d / 2)
	}
	return Estimate{Known: true, Final: final, Margin: margin}
}

func plusMinus(n int) string {
	return fmt.Sprintf("±%d", n)
}
// #endregion estimate
