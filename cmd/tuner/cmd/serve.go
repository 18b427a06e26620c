package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/setup-tuner/internal/eval"
	"github.com/danielpatrickdp/setup-tuner/internal/gate"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
	"github.com/danielpatrickdp/setup-tuner/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC tuning server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := session.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := session.NewService(store, gate.NewGate(cfg.GateSettings()), eval.NewEvalHarness(eval.DefaultEvalConfig()))

	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}

	srv := grpc.NewServer()
	transport.Register(srv, transport.NewServer(svc))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		logging.Info().
			Add(logging.Component("serve")).
			Add(logging.Reason(s.String())).
			Msg("shutting down")
		srv.GracefulStop()
	}()

	logging.Info().
		Add(logging.Component("serve")).
		Add(logging.Addr(lis.Addr().String())).
		Add(logging.Reason(cfg.Store.Backend + ":" + cfg.Store.Path)).
		Msg("tuner listening")

	return srv.Serve(lis)
}
