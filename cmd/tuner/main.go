// tuner suggests car setup values from lap feedback.
package main

import (
	"os"

	"github.com/danielpatrickdp/setup-tuner/cmd/tuner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
