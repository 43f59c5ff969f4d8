package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configured store and what it holds.",
		Example: `
amal info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			cfg, err := settings()
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := app.Open(ctx, cfg, log.New(os.Stderr, "", log.LstdFlags))
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Store.Close()
			i := info.Info{
				Config:  cfg,
				Service: svc,
			}
			return output.HandleError(i.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
