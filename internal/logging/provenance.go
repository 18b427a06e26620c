package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region round-log-schema
// RoundLogSchema creates the round_log table. Stores that keep provenance in
// SQLite run it as part of their migration.
const RoundLogSchema = `
CREATE TABLE IF NOT EXISTS round_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	round_id     TEXT NOT NULL,
	parameter    TEXT NOT NULL,
	category     TEXT NOT NULL,
	tried_value  INTEGER NOT NULL,
	msg          TEXT,
	is_ok        INTEGER NOT NULL,
	phase        TEXT NOT NULL,
	suggestion   INTEGER NOT NULL,
	final        TEXT,
	margin       TEXT,
	gate_action  TEXT NOT NULL,
	gate_reason  TEXT,
	created_at   TEXT NOT NULL
);
`
// #endregion round-log-schema

// #region log-round
// LogRound writes a provenance entry to the round_log table.
func LogRound(db *sql.DB, entry RoundEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.GateAction == "" {
		entry.GateAction = "commit"
	}

	_, err := db.Exec(
		`INSERT INTO round_log (session_id, round_id, parameter, category, tried_value, msg, is_ok,
		                        phase, suggestion, final, margin, gate_action, gate_reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.RoundID,
		entry.Parameter,
		entry.Category,
		entry.TriedValue,
		nullIfEmpty(entry.Message),
		boolInt(entry.IsOK),
		entry.Phase,
		entry.Suggestion,
		nullIfEmpty(entry.Final),
		nullIfEmpty(entry.Margin),
		entry.GateAction,
		nullIfEmpty(entry.GateReason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log round: %w", err)
	}
	return nil
}
// #endregion log-round

// #region list-rounds
// ListRounds returns a session's provenance rows in insertion order.
func ListRounds(db *sql.DB, sessionID string) ([]RoundEntry, error) {
	rows, err := db.Query(
		`SELECT session_id, round_id, parameter, category, tried_value, msg, is_ok,
		        phase, suggestion, final, margin, gate_action, gate_reason, created_at
		 FROM round_log WHERE session_id = ? ORDER BY id ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundEntry
	for rows.Next() {
		var e RoundEntry
		var msg, final, margin, gateReason sql.NullString
		var isOK int
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.RoundID, &e.Parameter, &e.Category, &e.TriedValue,
			&msg, &isOK, &e.Phase, &e.Suggestion, &final, &margin, &e.GateAction, &gateReason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		e.Message = msg.String
		e.IsOK = isOK != 0
		e.Final = final.String
		e.Margin = margin.String
		e.GateReason = gateReason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}
// #endregion list-rounds

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
// #endregion helpers
