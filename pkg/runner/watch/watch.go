// Package watch keeps printing the agenda as it changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"

	agendapkg "tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/live"
	runner "tableflip.dev/amal/pkg/runner/agenda"
)

type Watch struct {
	Service *app.Service
	Options agendapkg.Options
	Section runner.Section
	ShowID  bool
	JSON    bool
	// Clear redraws in place instead of appending.
	Clear  bool
	Out    io.Writer
	Logger *log.Logger
}

const clearScreen = "\033[H\033[2J"

// Do blocks until ctx is done.
func (w *Watch) Do(ctx context.Context) error {
	if w.Service == nil {
		return app.ErrNoPersistence
	}
	out := w.Out
	if out == nil {
		out = color.Output
	}
	user, _ := w.Service.User(ctx)

	v := &live.View{
		Service: w.Service,
		Options: w.Options,
		Logger:  w.Logger,
	}
	v.OnChange = func(a agendapkg.Agenda) {
		if v.Loading() {
			return
		}
		if w.Clear && !w.JSON {
			_, _ = fmt.Fprint(out, clearScreen)
		}
		if err := runner.Print(out, a, w.Section, w.ShowID, w.JSON, user); err != nil {
			log.Printf("watch: %v", err)
		}
	}
	if err := v.Start(ctx); err != nil {
		return err
	}
	defer v.Close()
	if user == "" {
		v.OnChange(v.Agenda())
	}
	<-ctx.Done()
	return nil
}
