package tuning

import "github.com/danielpatrickdp/setup-tuner/internal/feedback"

// #region allowed-messages
// AllowedMessages returns the statements worth offering for the next round.
// Before the target is bracketed every statement is informative. Once it is,
// only OK and the mildest statement pointing back into the bracket are.
func AllowedMessages(c feedback.Category, log Log) []string {
	s := scanLog(log)
	if !s.bracketed() {
		return feedback.Messages(c)
	}

	allowed := []string{feedback.OK(c).Message}
	expectedDir := expectedDirection(s)
	if expectedDir == 0 {
		return allowed
	}

	var pick *feedback.Definition
	defs := feedback.Definitions(c)
	for i := range defs {
		d := defs[i]
		if d.IsOK || d.Severity != 1 || d.Direction != expectedDir {
			continue
		}
		if pick == nil || abs(d.SignedRank) < abs(pick.SignedRank) {
			pick = &defs[i]
		}
	}
	if pick != nil {
		allowed = append(allowed, pick.Message)
	}
	return allowed
}

// expectedDirection is the correction a consistent NOK would ask for: down
// when the NOK value sits above the OK value, up when it sits below.
func expectedDirection(s scan) int {
	switch {
	case s.lastNOK > s.lastOK:
		return -1
	case s.lastNOK < s.lastOK:
		return 1
	default:
		return 0
	}
}
// #endregion allowed-messages
