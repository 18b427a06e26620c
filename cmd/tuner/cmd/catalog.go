package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the feedback catalog per category",
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	if err := feedback.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range feedback.Categories() {
		fmt.Fprintf(out, "%s (explore %+d)\n", c, feedback.ExploreDirection(c))
		for _, d := range feedback.Definitions(c) {
			fmt.Fprintf(out, "  %+3d  dir=%+d sev=%d  %s\n", d.SignedRank, d.Direction, d.Severity, d.Message)
		}
	}
	fmt.Fprintln(out)
	for _, p := range feedback.Parameters() {
		c, _ := feedback.CategoryOf(p)
		fmt.Fprintf(out, "%-12s -> %s\n", p, c)
	}
	return nil
}
