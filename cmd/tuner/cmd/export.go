package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/replay"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
)

var (
	exportSession string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored session as a replay fixture",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSession, "session", "", "session ID to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output fixture JSON path")
	_ = exportCmd.MarkFlagRequired("session")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := session.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	f, err := replay.FromSession(store, exportSession)
	if err != nil {
		return err
	}
	if err := replay.WriteFixture(exportOut, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rounds to %s\n", len(f.Rounds), exportOut)
	return nil
}
