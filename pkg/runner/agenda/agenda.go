// Package agenda prints the agenda once.
package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	agendapkg "tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/printers"
)

// Section selects which partition to print.
type Section int

const (
	All Section = iota
	Today
	Upcoming
)

type Agenda struct {
	Service *app.Service
	Options agendapkg.Options
	Section Section
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (a *Agenda) out() io.Writer {
	if a.Out == nil {
		return color.Output
	}
	return a.Out
}

func (a *Agenda) Do(ctx context.Context) error {
	if a.Service == nil {
		return app.ErrNoPersistence
	}
	result, err := a.Service.Agenda(ctx, a.Options)
	if err != nil {
		return err
	}
	user, _ := a.Service.User(ctx)
	return Print(a.out(), result, a.Section, a.ShowID, a.JSON, user)
}

// Print renders one agenda. It is shared with the watch runner.
func Print(out io.Writer, result agendapkg.Agenda, section Section, showID, asJSON bool, user string) error {
	if asJSON {
		var v any = result
		switch section {
		case Today:
			v = nonNil(result.Today)
		case Upcoming:
			v = nonNil(result.Upcoming)
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{Out: out, ShowID: showID, User: user}
	switch section {
	case Today:
		pp.TitleWithCount("Today", len(result.Today))
		pp.Items(result.Today...)
	case Upcoming:
		pp.TitleWithCount("Upcoming", len(result.Upcoming))
		pp.Items(result.Upcoming...)
	default:
		pp.Agenda(result)
	}
	return nil
}

func nonNil(items []agendapkg.UnifiedItem) []agendapkg.UnifiedItem {
	if items == nil {
		return []agendapkg.UnifiedItem{}
	}
	return items
}
