package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/printers"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed tasks, routines and meetings grouped by area",
		Long: `Report lists what was finished within the specified time window, grouped
by area.

Examples:
  amal report
  amal report --last 3d
  amal report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				since, until, label, err := wo.Bounds(svc.Now())
				if err != nil {
					return err
				}
				result, err := svc.Report(ctx, since, until)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(result)
				}
				pp := printers.PrettyPrint{Now: svc.Now()}
				pp.Report(result, label)
				return nil
			})
		},
	}

	options.AddWindowArgs(cmd, wo, "time window to include (for example 3d, 1w)")
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
