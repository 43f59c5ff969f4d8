package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	ao := &options.AgendaOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Full-screen live agenda.",
		Long: `Opens an interactive agenda that updates as the store changes.

Keys: j/k move, space toggles, a adds a task, J/K reorder the selected
task, r refreshes, q quits.`,
		Example: `
amal ui
amal ui --area work
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				opts, err := agendaOptions(ctx, svc, ao)
				if err != nil {
					return err
				}
				u := ui.UI{
					Service: svc,
					Options: opts,
				}
				return u.Do(ctx)
			})
		},
	}

	options.AddAgendaArgs(cmd, ao)
	topLevel.AddCommand(cmd)
}
