package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

type Info struct {
	Config  *store.Settings
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("AMAL_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "AMAL_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "AMAL_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.backend: ", n.Config.Backend)
	switch n.Config.Backend {
	case store.BackendFirestore:
		_, _ = fmt.Fprintln(out, "Config.firestore.project: ", n.Config.FirestoreProject)
	case store.BackendDisk:
		_, _ = fmt.Fprintln(out, "Config.path: ", n.Config.BasePath())
	}
	user := n.Config.User
	if user == "" {
		user = "(signed out)"
	}
	_, _ = fmt.Fprintln(out, "Config.user: ", user)
	_, _ = fmt.Fprintln(out, "Config.agenda.priority: ", n.Config.AgendaPriority)

	if n.Service == nil {
		return fmt.Errorf("failed to open the store")
	}
	in, err := n.Service.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, app.ErrNoUser) {
			return nil
		}
		return err
	}
	notes, err := n.Service.Notes(ctx, "")
	if err != nil {
		return err
	}
	counts := map[model.Kind]int{
		model.KindTask:    len(in.Tasks),
		model.KindRoutine: len(in.Routines),
		model.KindMeeting: len(in.Meetings),
		model.KindAccount: len(in.Accounts),
		model.KindNote:    len(notes),
	}
	_, _ = fmt.Fprintf(out, "Collections:\n")
	for _, k := range model.Kinds() {
		_, _ = fmt.Fprintf(out, "  %-9s %d\n", k, counts[k])
	}
	return nil
}
