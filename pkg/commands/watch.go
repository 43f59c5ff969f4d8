package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	runner "tableflip.dev/amal/pkg/runner/agenda"
	"tableflip.dev/amal/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	ao := &options.AgendaOptions{}
	ids := &options.IDOptions{}
	redraw := false

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the agenda again every time it changes.",
		Example: `
amal watch
amal watch --clear
amal watch --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				opts, err := agendaOptions(ctx, svc, ao)
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				w := watch.Watch{
					Service: svc,
					Options: opts,
					Section: runner.All,
					ShowID:  ids.ShowID,
					JSON:    output.JSON,
					Clear:   redraw,
					Logger:  svc.Logger,
				}
				return w.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&redraw, "clear", false, "Redraw in place instead of appending.")
	options.AddAgendaArgs(cmd, ao)
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
