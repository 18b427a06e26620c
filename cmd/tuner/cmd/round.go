package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/transport"
)

var (
	roundInput  string
	roundRemote string
)

var roundCmd = &cobra.Command{
	Use:   "round",
	Short: "Process one round request (JSON from --in or stdin)",
	RunE:  runRound,
}

func init() {
	roundCmd.Flags().StringVar(&roundInput, "in", "", "request file (default stdin)")
	roundCmd.Flags().StringVar(&roundRemote, "remote", "", "send to a running server at this address instead of processing locally")
}

func runRound(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if roundInput == "" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(roundInput)
	}
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	req, err := round.Decode(data)
	if err != nil {
		return err
	}

	var resp round.Response
	if roundRemote == "" {
		resp, err = round.Process(req)
	} else {
		resp, err = remoteRound(roundRemote, req)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

func remoteRound(addr string, req round.Request) (round.Response, error) {
	client, err := transport.NewClient(addr)
	if err != nil {
		return round.Response{}, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Round(ctx, req)
}
