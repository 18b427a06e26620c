package logging

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func tempDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "provenance.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(RoundLogSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func TestLogRoundAndList(t *testing.T) {
	db := tempDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []RoundEntry{
		{
			SessionID: "s1", RoundID: "r1", Parameter: "engine", Category: "engine",
			TriedValue: 500, Message: "The engine lacks power on the straights.",
			Phase: "probing", Suggestion: 583, Final: "N/A", Margin: "N/A", CreatedAt: now,
		},
		{
			SessionID: "s1", RoundID: "r2", Parameter: "engine", Category: "engine",
			TriedValue: 583, Message: "The engine is fine, I'm happy with it.", IsOK: true,
			Phase: "bisection", Suggestion: 542, Final: "625", Margin: "±41",
			GateAction: "flag", GateReason: "off suggestion", CreatedAt: now.Add(time.Minute),
		},
		{SessionID: "s2", RoundID: "x1", Parameter: "brakes", Category: "brakes", Phase: "probing"},
	}
	for _, e := range entries {
		if err := LogRound(db, e); err != nil {
			t.Fatalf("LogRound: %v", err)
		}
	}

	got, err := ListRounds(db, "s1")
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for s1, got %d", len(got))
	}

	first := got[0]
	if first.RoundID != "r1" || first.IsOK || first.Suggestion != 583 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.GateAction != "commit" {
		t.Fatalf("expected default gate action commit, got %q", first.GateAction)
	}
	if !first.CreatedAt.Equal(now) {
		t.Fatalf("created_at round trip: got %v want %v", first.CreatedAt, now)
	}

	second := got[1]
	if !second.IsOK || second.Final != "625" || second.Margin != "±41" {
		t.Fatalf("unexpected second row: %+v", second)
	}
	if second.GateAction != "flag" || second.GateReason != "off suggestion" {
		t.Fatalf("gate fields lost: %+v", second)
	}
}

func TestLogRoundDefaultsCreatedAt(t *testing.T) {
	db := tempDB(t)
	before := time.Now().UTC().Add(-time.Second)

	if err := LogRound(db, RoundEntry{SessionID: "s", RoundID: "r", Parameter: "gearbox", Category: "gearbox", Phase: "empty"}); err != nil {
		t.Fatalf("LogRound: %v", err)
	}
	got, err := ListRounds(db, "s")
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].CreatedAt.Before(before) {
		t.Fatalf("created_at not defaulted: %v", got[0].CreatedAt)
	}
	if got[0].Message != "" || got[0].Final != "" {
		t.Fatalf("empty strings should round trip as empty: %+v", got[0])
	}
}

func TestListRoundsUnknownSession(t *testing.T) {
	db := tempDB(t)
	got, err := ListRounds(db, "missing")
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}
