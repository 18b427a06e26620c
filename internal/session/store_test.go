package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// backends opens a fresh store of each kind in a temp dir.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	out := map[string]Store{}
	for _, name := range []string{"sqlite", "bolt"} {
		s, err := Open(name, filepath.Join(dir, name+".db"))
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		t.Cleanup(func() { s.Close() })
		out[name] = s
	}
	return out
}

func okLap(p feedback.Parameter, acerto int) round.Lap {
	c, _ := feedback.CategoryOf(p)
	return round.Lap{p: round.NewProcessedEntry(acerto, feedback.OK(c))}
}

func TestCreateAndGetSession(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess, err := s.CreateSession("monza quali")
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			if sess.ID == "" {
				t.Fatal("expected non-empty session ID")
			}

			got, err := s.GetSession(sess.ID)
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.ID != sess.ID || got.Label != "monza quali" {
				t.Fatalf("unexpected session: %+v", got)
			}
			if !got.CreatedAt.Equal(sess.CreatedAt) {
				t.Fatalf("created_at round trip: got %v want %v", got.CreatedAt, sess.CreatedAt)
			}
		})
	}
}

func TestGetSessionNotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetSession("nope")
			if !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ids := map[string]bool{}
			for _, label := range []string{"a", "b", "c"} {
				sess, err := s.CreateSession(label)
				if err != nil {
					t.Fatalf("CreateSession: %v", err)
				}
				ids[sess.ID] = true
			}

			all, err := s.ListSessions(0)
			if err != nil {
				t.Fatalf("ListSessions: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 sessions, got %d", len(all))
			}
			for _, sess := range all {
				if !ids[sess.ID] {
					t.Fatalf("unexpected session %s", sess.ID)
				}
			}

			two, err := s.ListSessions(2)
			if err != nil {
				t.Fatalf("ListSessions(2): %v", err)
			}
			if len(two) != 2 {
				t.Fatalf("expected 2 sessions, got %d", len(two))
			}
		})
	}
}

func TestAppendRoundChainsRounds(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess, err := s.CreateSession("chain")
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			first, err := s.AppendRound(RoundRecord{SessionID: sess.ID, XP: 200, CT: 100, Lap: okLap(feedback.ParamEngine, 500)})
			if err != nil {
				t.Fatalf("AppendRound: %v", err)
			}
			if first.Seq != 1 || first.ParentID != "" || first.ID == "" {
				t.Fatalf("unexpected first round: %+v", first)
			}

			second, err := s.AppendRound(RoundRecord{SessionID: sess.ID, XP: 200, CT: 100, Lap: okLap(feedback.ParamEngine, 542)})
			if err != nil {
				t.Fatalf("AppendRound: %v", err)
			}
			if second.Seq != 2 || second.ParentID != first.ID {
				t.Fatalf("unexpected second round: %+v", second)
			}

			laps, err := History(s, sess.ID)
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(laps) != 2 {
				t.Fatalf("expected 2 laps, got %d", len(laps))
			}
			if laps[0][feedback.ParamEngine].Acerto != 500 || laps[1][feedback.ParamEngine].Acerto != 542 {
				t.Fatalf("laps out of order: %+v", laps)
			}
			if !laps[1][feedback.ParamEngine].IsOK {
				t.Fatal("classification lost in storage")
			}
		})
	}
}

func TestAppendRoundUnknownSession(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.AppendRound(RoundRecord{SessionID: "nope", Lap: okLap(feedback.ParamBrakes, 500)})
			if !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestRoundLogRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess, err := s.CreateSession("log")
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			at := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
			for i, p := range []string{"engine", "frontWing"} {
				err := s.LogRound(logging.RoundEntry{
					SessionID:  sess.ID,
					RoundID:    "r1",
					Parameter:  p,
					Category:   p,
					TriedValue: 500 + i,
					Phase:      "probing",
					Suggestion: 542,
					Final:      "N/A",
					Margin:     "N/A",
					CreatedAt:  at,
				})
				if err != nil {
					t.Fatalf("LogRound: %v", err)
				}
			}

			entries, err := s.RoundLog(sess.ID)
			if err != nil {
				t.Fatalf("RoundLog: %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(entries))
			}
			if entries[0].Parameter != "engine" || entries[1].TriedValue != 501 {
				t.Fatalf("entries out of order: %+v", entries)
			}
			if entries[0].GateAction != "commit" {
				t.Fatalf("expected default gate action, got %q", entries[0].GateAction)
			}
			if !entries[0].CreatedAt.Equal(at) {
				t.Fatalf("created_at round trip: got %v", entries[0].CreatedAt)
			}
		})
	}
}

func TestOpenAcceptsEveryKnownBackend(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"", "sqlite", "bolt", "bbolt"} {
		if !KnownBackend(name) {
			t.Fatalf("KnownBackend(%q) = false", name)
		}
		s, err := Open(name, filepath.Join(dir, fmt.Sprintf("store%d.db", i)))
		if err != nil {
			t.Fatalf("Open(%q): %v", name, err)
		}
		s.Close()
	}
	if KnownBackend("postgres") {
		t.Fatal("KnownBackend(postgres) = true")
	}
}

func TestNewSQLiteStoreFailsInMissingDir(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "missing", "tuner.db"))
	if err == nil {
		s.Close()
		t.Fatal("expected error for a path in a missing directory")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
