package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/model"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(amal completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(amal completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// taskCompletions offers the short ids of active tasks whose id or title
// starts with toComplete.
func taskCompletions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := context.Background()
	svc, err := open(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer svc.Store.Close()
	views, err := svc.Tasks(ctx, "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completions(append(views.Active, views.Snoozed...), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completions(tasks []model.Task, toComplete string) []string {
	var out []string
	prefix := strings.ToLower(toComplete)
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, toComplete) || strings.HasPrefix(strings.ToLower(t.Title), prefix) {
			out = append(out, t.ID[:min(8, len(t.ID))]+"\t"+t.Title)
		}
	}
	return out
}
