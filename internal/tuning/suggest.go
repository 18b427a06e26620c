package tuning

import "github.com/danielpatrickdp/setup-tuner/internal/feedback"

// #region suggest
// Suggest returns the next value to try for a parameter of the given category.
// It is a pure function of the log and zone.
func Suggest(c feedback.Category, log Log, zone Zone) int {
	s := scanLog(log)
	if !s.nonEmpty {
		return StartValue
	}
	if s.bracketed() {
		return bisect(s)
	}
	if !s.last.Feedback.IsOK {
		fb := s.last.Feedback
		return clamp(s.last.TriedValue + fb.Direction*fb.Severity*zone.Total)
	}
	return explore(c, s, zone)
}
// #endregion suggest

// #region explore
// explore steps away from the last OK value in the category's exploration
// direction. The step starts at zone.Half and halves for every extra OK in
// the trailing run.
func explore(c feedback.Category, s scan, zone Zone) int {
	dir := feedback.ExploreDirection(c)
	last := s.last.TriedValue

	step := zone.Half
	for i := 1; i < s.okRun; i++ {
		step = halveStep(step)
	}

	candidate := last + dir*step
	for retry := 0; retry < maxCollisionRetries && s.tried[candidate]; retry++ {
		candidate += dir * step
	}
	if s.tried[candidate] && step <= 1 {
		candidate = last
	}
	return clamp(candidate)
}

func halveStep(step int) int {
	next := RoundHalfUp(float64(step) / 2)
	if next < 1 {
		return 1
	}
	return next
}
// #endregion explore

// #region bisect
// bisect probes the first untried integer at or above the bracket midpoint,
// then below it, and falls back to the last OK value.
func bisect(s scan) int {
	if s.diff() <= convergedDiff {
		return clamp(s.lastOK)
	}
	lo, hi := minMax(s.lastOK, s.lastNOK)
	mid := RoundHalfUp(float64(lo+hi) / 2)

	for v := mid; v <= hi; v++ {
		if !s.tried[v] {
			return clamp(v)
		}
	}
	for v := mid - 1; v >= lo; v-- {
		if !s.tried[v] {
			return clamp(v)
		}
	}
	return clamp(s.lastOK)
}
// #endregion bisect
