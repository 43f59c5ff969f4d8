package commands

import (
	"context"
	"log"
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/store"
)

var (
	output = &options.OutputOptions{}
	asUser string
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "amal",
		Short: base.Wrap80("Tasks, routines and meetings in one agenda."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&asUser, "user", "u", "",
		"Act as this user id, overriding the configured user.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addToday(topLevel)
	addUpcoming(topLevel)
	addTask(topLevel)
	addRoutine(topLevel)
	addMeeting(topLevel)
	addAccount(topLevel)
	addNote(topLevel)
	addWatch(topLevel)
	addUI(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addReport(topLevel)
	addReview(topLevel)
	addUpgrade(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func settings() (*store.Settings, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if asUser != "" {
		cfg.User = asUser
	}
	return cfg, nil
}

// open builds the service for a command. The caller closes svc.Store.
func open(ctx context.Context) (*app.Service, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, log.New(os.Stderr, "", log.LstdFlags))
}

// withService runs fn against a freshly opened service and routes the error
// through the output options.
func withService(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := context.Background()
	svc, err := open(ctx)
	if err != nil {
		return output.HandleError(err)
	}
	defer svc.Store.Close()
	return output.HandleError(fn(ctx, svc))
}
