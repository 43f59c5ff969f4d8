package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
)

func addUpgrade(topLevel *cobra.Command) {
	dryRun := false

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Rewrite legacy tasks and notes into the current shape.",
		Example: `
amal upgrade --dry-run
amal upgrade
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				res, err := svc.Upgrade(ctx, dryRun)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(res)
				}
				verb := "Upgraded"
				if dryRun {
					verb = "Would upgrade"
				}
				_, _ = fmt.Fprintf(color.Output, "%s %d tasks and %d notes\n", verb, res.Tasks, res.Notes)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count what would change without writing.")
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
