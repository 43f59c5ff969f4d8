package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/tui"
)

// ErrNotTerminal is returned when stdout cannot host the full-screen UI.
var ErrNotTerminal = errors.New("ui needs an interactive terminal; try `amal today` or `amal watch`")

type UI struct {
	Service *app.Service
	Options agenda.Options
}

func (u *UI) Do(ctx context.Context) error {
	if !interactive(os.Stdout.Fd()) || !interactive(os.Stdin.Fd()) {
		return ErrNotTerminal
	}
	return tui.Run(ctx, u.Service, u.Options)
}

func interactive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
