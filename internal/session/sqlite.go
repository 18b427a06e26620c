package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	label       TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
	round_id    TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	parent_id   TEXT,
	seq         INTEGER NOT NULL,
	xp          REAL NOT NULL,
	ct          REAL NOT NULL,
	lap_json    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id),
	FOREIGN KEY (parent_id) REFERENCES rounds(round_id),
	UNIQUE (session_id, seq)
);
`
// #endregion schema

// #region store-struct
// SQLiteStore manages sessions in SQLite.
type SQLiteStore struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(logging.RoundLogSchema); err != nil {
		return fmt.Errorf("migrate round log: %w", err)
	}
	return nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
// #endregion close

// #region sessions
// CreateSession inserts a new session with a fresh ID.
func (s *SQLiteStore) CreateSession(label string) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, label, created_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Label, sess.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(id string) (Session, error) {
	var sess Session
	var label sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT session_id, label, created_at FROM sessions WHERE session_id = ?`, id,
	).Scan(&sess.ID, &label, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	sess.Label = label.String
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return sess, nil
}

// ListSessions returns the most recent sessions. A limit <= 0 returns all.
func (s *SQLiteStore) ListSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT session_id, label, created_at FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var label sql.NullString
		var createdStr string
		if err := rows.Scan(&sess.ID, &label, &createdStr); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Label = label.String
		sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, sess)
	}
	return out, rows.Err()
}
// #endregion sessions

// #region append-round
// AppendRound inserts the next round of a session atomically.
func (s *SQLiteStore) AppendRound(rec RoundRecord) (RoundRecord, error) {
	lapJSON, err := json.Marshal(rec.Lap)
	if err != nil {
		return RoundRecord{}, fmt.Errorf("marshal lap: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RoundRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM sessions WHERE session_id = ?`, rec.SessionID).Scan(&exists); err != nil {
		return RoundRecord{}, fmt.Errorf("check session: %w", err)
	}
	if exists == 0 {
		return RoundRecord{}, fmt.Errorf("append round to %s: %w", rec.SessionID, ErrSessionNotFound)
	}

	var parentID sql.NullString
	var lastSeq sql.NullInt64
	err = tx.QueryRow(
		`SELECT round_id, seq FROM rounds WHERE session_id = ? ORDER BY seq DESC LIMIT 1`, rec.SessionID,
	).Scan(&parentID, &lastSeq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return RoundRecord{}, fmt.Errorf("last round: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ParentID = parentID.String
	rec.Seq = int(lastSeq.Int64) + 1

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO rounds (round_id, session_id, parent_id, seq, xp, ct, lap_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, parentPtr, rec.Seq, rec.XP, rec.CT, string(lapJSON),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RoundRecord{}, fmt.Errorf("insert round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return RoundRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}
// #endregion append-round

// #region rounds
// Rounds returns a session's rounds in play order.
func (s *SQLiteStore) Rounds(sessionID string) ([]RoundRecord, error) {
	rows, err := s.db.Query(
		`SELECT round_id, session_id, parent_id, seq, xp, ct, lap_json, created_at
		 FROM rounds WHERE session_id = ? ORDER BY seq ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var rec RoundRecord
		var parentID sql.NullString
		var lapJSON string
		var createdStr string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &parentID, &rec.Seq, &rec.XP, &rec.CT, &lapJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rec.ParentID = parentID.String
		if err := json.Unmarshal([]byte(lapJSON), &rec.Lap); err != nil {
			return nil, fmt.Errorf("unmarshal lap: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}
// #endregion rounds

// #region provenance
// LogRound appends a provenance row.
func (s *SQLiteStore) LogRound(entry logging.RoundEntry) error {
	return logging.LogRound(s.db, entry)
}

// RoundLog returns a session's provenance rows.
func (s *SQLiteStore) RoundLog(sessionID string) ([]logging.RoundEntry, error) {
	return logging.ListRounds(s.db, sessionID)
}
// #endregion provenance
