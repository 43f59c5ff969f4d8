package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	addr := ""

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API.",
		Long: `Serve exposes tasks, routines, meetings, areas, notes and the agenda over
HTTP. Every /api route needs a bearer token, verified either with the
configured shared secret (server.auth: jwt) or by Firebase Auth
(server.auth: firebase).`,
		Example: `
amal serve
amal serve --addr :9090
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := settings()
			if err != nil {
				return err
			}
			logger := log.New(os.Stderr, "", log.LstdFlags)
			svc, err := app.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			s := serve.Serve{
				Config:  cfg,
				Service: svc,
				Addr:    addr,
				Logger:  logger,
			}
			return s.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overriding server.addr.")
	topLevel.AddCommand(cmd)
}
