package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/printers"
)

func addReview(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "List open tasks nobody has touched for a while",
		Long: `Review lists open tasks, waiting ones included, whose last change is older
than the window. Decide for each: do it, snooze it, or delete it.`,
		Example: `
amal review
amal review --last 2w -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				cutoff, _, _, err := wo.Bounds(svc.Now())
				if err != nil {
					return err
				}
				candidates, err := svc.ReviewCandidates(ctx, cutoff)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(candidates))
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now()}
				pp.Review(candidates)
				return nil
			})
		},
	}

	options.AddWindowArgs(cmd, wo, "only tasks untouched for longer than this (for example 1w, 2w3d)")
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
