package session

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// #region errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownBackend  = errors.New("unknown store backend")
)
// #endregion errors

// #region session
// Session is one tuning session for one driver and car.
type Session struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}
// #endregion session

// #region round-record
// RoundRecord is a committed round: the skill inputs it ran with and the
// classified lap it produced. ParentID links to the previous round.
type RoundRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Seq       int       `json:"seq"`
	XP        float64   `json:"xp"`
	CT        float64   `json:"ct"`
	Lap       round.Lap `json:"lap"`
	CreatedAt time.Time `json:"created_at"`
}
// #endregion round-record

// #region store
// Store persists sessions, their rounds and the per-round provenance trail.
type Store interface {
	CreateSession(label string) (Session, error)
	GetSession(id string) (Session, error)
	ListSessions(limit int) ([]Session, error)

	// AppendRound assigns Seq and ParentID and stores the round.
	AppendRound(rec RoundRecord) (RoundRecord, error)
	Rounds(sessionID string) ([]RoundRecord, error)

	LogRound(entry logging.RoundEntry) error
	RoundLog(sessionID string) ([]logging.RoundEntry, error)

	Close() error
}

// History returns the classified laps of a session in play order.
func History(s Store, sessionID string) ([]round.Lap, error) {
	recs, err := s.Rounds(sessionID)
	if err != nil {
		return nil, err
	}
	laps := make([]round.Lap, len(recs))
	for i, r := range recs {
		laps[i] = r.Lap
	}
	return laps, nil
}
// #endregion store
