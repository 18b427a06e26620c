package feedback

// #region imports
import (
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
)

// #endregion

// #region classify

// Classify maps a driver statement to its catalog definition. Unknown
// statements fall back to the category's OK definition so a vocabulary
// mismatch never breaks a round.
func Classify(c Category, message string) Definition {
	if d, ok := Lookup(c, message); ok {
		return d
	}
	logging.Warn().
		Add(logging.Component("feedback")).
		Add(logging.Category(string(c))).
		Add(logging.Message(message)).
		Msg("unrecognized feedback, treating as ok")
	return OK(c)
}

// #endregion
