package session

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Each session gets a top-level bucket named by its ID. Inside it, "meta"
// holds the session JSON, and the "rounds" and "log" sub-buckets hold JSON
// values keyed by big-endian sequence numbers so cursor order is play order.
var (
	bucketRounds = []byte("rounds")
	bucketLog    = []byte("log")
	keyMeta      = []byte("meta")
)

// #region store-struct
// BoltStore manages sessions in a bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at the given path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
// #endregion store-struct

// #region sessions
// CreateSession stores a new session with a fresh ID.
func (s *BoltStore) CreateSession(label string) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucket([]byte(sess.ID))
		if err != nil {
			return err
		}
		if _, err := b.CreateBucket(bucketRounds); err != nil {
			return err
		}
		if _, err := b.CreateBucket(bucketLog); err != nil {
			return err
		}
		return b.Put(keyMeta, data)
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *BoltStore) GetSession(id string) (Session, error) {
	var sess Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(id))
		if b == nil {
			return ErrSessionNotFound
		}
		return json.Unmarshal(b.Get(keyMeta), &sess)
	})
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// ListSessions returns the most recent sessions. A limit <= 0 returns all.
func (s *BoltStore) ListSessions(limit int) ([]Session, error) {
	var out []Session
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			var sess Session
			if err := json.Unmarshal(b.Get(keyMeta), &sess); err != nil {
				return fmt.Errorf("unmarshal session %s: %w", name, err)
			}
			out = append(out, sess)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
// #endregion sessions

// #region rounds
// AppendRound stores the next round of a session in one update transaction.
func (s *BoltStore) AppendRound(rec RoundRecord) (RoundRecord, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket([]byte(rec.SessionID))
		if sb == nil {
			return ErrSessionNotFound
		}
		rb := sb.Bucket(bucketRounds)

		rec.ParentID = ""
		if k, v := rb.Cursor().Last(); k != nil {
			var prev RoundRecord
			if err := json.Unmarshal(v, &prev); err != nil {
				return fmt.Errorf("unmarshal last round: %w", err)
			}
			rec.ParentID = prev.ID
		}
		seq, err := rb.NextSequence()
		if err != nil {
			return err
		}
		rec.Seq = int(seq)
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal round: %w", err)
		}
		return rb.Put(seqKey(seq), data)
	})
	if err != nil {
		return RoundRecord{}, fmt.Errorf("append round to %s: %w", rec.SessionID, err)
	}
	return rec, nil
}

// Rounds returns a session's rounds in play order.
func (s *BoltStore) Rounds(sessionID string) ([]RoundRecord, error) {
	var out []RoundRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		sb := tx.Bucket([]byte(sessionID))
		if sb == nil {
			return ErrSessionNotFound
		}
		return sb.Bucket(bucketRounds).ForEach(func(_, v []byte) error {
			var rec RoundRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal round: %w", err)
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return out, nil
}
// #endregion rounds

// #region provenance
// LogRound appends a provenance entry to the session's log bucket.
func (s *BoltStore) LogRound(entry logging.RoundEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.GateAction == "" {
		entry.GateAction = "commit"
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal round entry: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket([]byte(entry.SessionID))
		if sb == nil {
			return ErrSessionNotFound
		}
		lb := sb.Bucket(bucketLog)
		seq, err := lb.NextSequence()
		if err != nil {
			return err
		}
		return lb.Put(seqKey(seq), data)
	})
	if err != nil {
		return fmt.Errorf("log round: %w", err)
	}
	return nil
}

// RoundLog returns a session's provenance entries in insertion order.
func (s *BoltStore) RoundLog(sessionID string) ([]logging.RoundEntry, error) {
	var out []logging.RoundEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		sb := tx.Bucket([]byte(sessionID))
		if sb == nil {
			return ErrSessionNotFound
		}
		return sb.Bucket(bucketLog).ForEach(func(_, v []byte) error {
			var e logging.RoundEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal round entry: %w", err)
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("round log: %w", err)
	}
	return out, nil
}
// #endregion provenance

// #region helpers
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
// #endregion helpers
