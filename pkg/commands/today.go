package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	runner "tableflip.dev/amal/pkg/runner/agenda"
)

func addToday(topLevel *cobra.Command) {
	ao := &options.AgendaOptions{}
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"agenda"},
		Short:   "Show today's tasks, routines and meetings.",
		Example: `
amal today
amal today --area work -k
amal today --priority task,meeting,routine
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				opts, err := agendaOptions(ctx, svc, ao)
				if err != nil {
					return err
				}
				a := runner.Agenda{
					Service: svc,
					Options: opts,
					Section: runner.Today,
					ShowID:  ids.ShowID,
					JSON:    output.JSON,
				}
				return a.Do(ctx)
			})
		},
	}

	options.AddAgendaArgs(cmd, ao)
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addUpcoming(topLevel *cobra.Command) {
	ao := &options.AgendaOptions{}
	ids := &options.IDOptions{}
	all := false

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show what is scheduled after today.",
		Example: `
amal upcoming
amal upcoming --window 1w
amal upcoming --all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				opts, err := agendaOptions(ctx, svc, ao)
				if err != nil {
					return err
				}
				section := runner.Upcoming
				if all {
					section = runner.All
				}
				a := runner.Agenda{
					Service: svc,
					Options: opts,
					Section: section,
					ShowID:  ids.ShowID,
					JSON:    output.JSON,
				}
				return a.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show today as well.")
	options.AddAgendaArgs(cmd, ao)
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

// agendaOptions resolves the area flag and builds the agenda options.
func agendaOptions(ctx context.Context, svc *app.Service, ao *options.AgendaOptions) (agenda.Options, error) {
	area, err := svc.AreaID(ctx, ao.Area)
	if err != nil {
		return agenda.Options{}, err
	}
	return ao.Build(area)
}
