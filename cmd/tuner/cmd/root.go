package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/config"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "tuner",
	Short:         "Adaptive car setup tuner",
	Long:          "Suggests the next setup value per parameter from lap feedback and estimates the ideal setting.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Init(cfg.Logging())
		return nil
	},
}

// errMismatch signals a replay that did not reproduce its fixture.
var errMismatch = errors.New("replay mismatch")

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errMismatch) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, config.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (env TUNER_* overrides)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(exportCmd)
}
