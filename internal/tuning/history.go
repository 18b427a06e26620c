package tuning

// #region scan
// scan is the per-call summary of a log. It is rebuilt on every call and
// never kept between calls.
type scan struct {
	hasOK    bool
	hasNOK   bool
	lastOK   int
	lastNOK  int
	okRun    int // consecutive OK observations at the tail of the log
	tried    map[int]bool
	last     Observation
	nonEmpty bool
}

// scanLog walks the log backward. lastOK and lastNOK are the most recent
// value of each polarity, found independently.
func scanLog(log Log) scan {
	s := scan{tried: make(map[int]bool, len(log))}
	for _, o := range log {
		s.tried[o.TriedValue] = true
	}
	if len(log) == 0 {
		return s
	}
	s.nonEmpty = true
	s.last = log[len(log)-1]

	runOpen := true
	for i := len(log) - 1; i >= 0; i-- {
		o := log[i]
		if o.Feedback.IsOK {
			if runOpen {
				s.okRun++
			}
			if !s.hasOK {
				s.hasOK = true
				s.lastOK = o.TriedValue
			}
		} else {
			runOpen = false
			if !s.hasNOK {
				s.hasNOK = true
				s.lastNOK = o.TriedValue
			}
		}
		if s.hasOK && s.hasNOK && !runOpen {
			break
		}
	}
	return s
}

func (s scan) bracketed() bool {
	return s.hasOK && s.hasNOK
}

func (s scan) diff() int {
	return abs(s.lastOK - s.lastNOK)
}
// #endregion scan

// #region phase
// PhaseOf reports which search phase the log is in.
func PhaseOf(log Log) Phase {
	s := scanLog(log)
	switch {
	case !s.nonEmpty:
		return PhaseEmpty
	case !s.bracketed():
		return PhaseProbing
	case s.diff() <= convergedDiff:
		return PhaseConverged
	default:
		return PhaseBisection
	}
}
// #endregion phase

// #region helpers
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
// #endregion helpers
