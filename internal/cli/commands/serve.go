package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapbridge/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge operations over HTTP",
		Long: `Start an HTTP server exposing the bridge operations as JSON endpoints:

  POST /v1/encode    {"text": "..."}   -> {"text": "<token>"}
  POST /v1/decode    {"text": "<token>"} -> {"text": "..."}
  POST /v1/query                         -> [{"col": value, ...}, ...]
  POST /v1/generate  {"prompt": "...", "model": "..."} -> {"text": "..."}
  GET  /healthz

Browser front ends are allowed through CORS when server.allowed_origins is
set. Generation requests are throttled by server.generate_rps and
server.generate_burst; a rate of 0 disables the limit.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  leapbridge serve
  leapbridge serve --addr 0.0.0.0:8787`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			svc, err := cmdCtx.NewService()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(server.Config{
				Service:         svc,
				Addr:            cmdCtx.Cfg.Server.Addr,
				ShutdownTimeout: cmdCtx.Cfg.Server.ShutdownTimeout,
				Logger:          cmdCtx.Logger,
				AllowedOrigins:  cmdCtx.Cfg.Server.AllowedOrigins,
				GenerateLimit: server.RateLimit{
					RequestsPerSecond: cmdCtx.Cfg.Server.GenerateRPS,
					Burst:             cmdCtx.Cfg.Server.GenerateBurst,
				},
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from server.addr)")

	return cmd
}
