package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
)

var (
	inspectSession string
	inspectLast    int
	inspectJSON    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List stored sessions, or show one session's round log",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSession, "session", "", "show round log for this session ID")
	inspectCmd.Flags().IntVar(&inspectLast, "last", 20, "show N most recent sessions")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON instead of table")
}

func runInspect(cmd *cobra.Command, args []string) error {
	store, err := session.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if inspectSession != "" {
		return runSessionDetail(out, store, inspectSession)
	}
	return runSessionList(out, store)
}

// #region list-mode

type sessionRow struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Rounds    int    `json:"rounds"`
	CreatedAt string `json:"created_at"`
}

func runSessionList(out io.Writer, store session.Store) error {
	sessions, err := store.ListSessions(inspectLast)
	if err != nil {
		return err
	}
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rounds, err := store.Rounds(s.ID)
		if err != nil {
			return err
		}
		rows = append(rows, sessionRow{
			ID:        s.ID,
			Label:     s.Label,
			Rounds:    len(rounds),
			CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	if inspectJSON {
		return printJSON(out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "no sessions found")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-20s  %6s  %s\n", "Session", "Label", "Rounds", "Created")
	fmt.Fprintf(out, "%-36s+-%-20s+-%6s+-%s\n",
		"------------------------------------", "--------------------", "------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(out, "%-36s  %-20s  %6d  %s\n", r.ID, r.Label, r.Rounds, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runSessionDetail(out io.Writer, store session.Store, id string) error {
	sess, err := store.GetSession(id)
	if err != nil {
		return err
	}
	entries, err := store.RoundLog(id)
	if err != nil {
		return err
	}

	if inspectJSON {
		return printJSON(out, struct {
			Session session.Session      `json:"session"`
			Log     []logging.RoundEntry `json:"log"`
		}{sess, entries})
	}

	fmt.Fprintf(out, "Session: %s\n", sess.ID)
	fmt.Fprintf(out, "Label:   %s\n", sess.Label)
	fmt.Fprintf(out, "Created: %s\n\n", sess.CreatedAt.Format("2006-01-02T15:04:05Z"))

	if len(entries) == 0 {
		fmt.Fprintln(out, "no rounds recorded")
		return nil
	}
	fmt.Fprintf(out, "%-8s  %-12s  %5s  %-3s  %-10s  %5s  %5s  %6s  %s\n",
		"Round", "Parameter", "Tried", "OK", "Phase", "Next", "Final", "Margin", "Gate")
	for _, e := range entries {
		ok := "no"
		if e.IsOK {
			ok = "yes"
		}
		gateCol := e.GateAction
		if e.GateReason != "" {
			gateCol += " (" + e.GateReason + ")"
		}
		fmt.Fprintf(out, "%-8s  %-12s  %5d  %-3s  %-10s  %5d  %5s  %6s  %s\n",
			shortID(e.RoundID), e.Parameter, e.TriedValue, ok, e.Phase, e.Suggestion, e.Final, e.Margin, gateCol)
	}
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
