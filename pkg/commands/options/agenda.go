package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/timeutil"
)

// AgendaOptions
type AgendaOptions struct {
	Query       string
	Area        string
	HideSnoozed bool
	Window      string
	Priority    string
}

func AddAgendaArgs(cmd *cobra.Command, o *AgendaOptions) {
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Only show items whose title or description contains this text.")
	cmd.Flags().StringVarP(&o.Area, "area", "a", "",
		"Only show items in this area (id or name).")
	cmd.Flags().BoolVar(&o.HideSnoozed, "hide-snoozed", false,
		"Hide waiting tasks.")
	cmd.Flags().StringVar(&o.Window, "window", "",
		"Limit upcoming items to this look-ahead window, for example 3d or 1w.")
	cmd.Flags().StringVar(&o.Priority, "priority", "",
		"Order of untimed items, for example routine,meeting,task.")
}

// Build converts the flags into agenda options. The area must already be
// resolved to an id.
func (o *AgendaOptions) Build(areaID string) (agenda.Options, error) {
	opts := agenda.Options{
		Query:       o.Query,
		Area:        areaID,
		HideSnoozed: o.HideSnoozed,
	}
	if o.Window != "" {
		d, _, err := timeutil.ParseWindow(o.Window, timeutil.DefaultWindow)
		if err != nil {
			return opts, err
		}
		opts.Window = d
	}
	if o.Priority != "" {
		p, err := agenda.ParsePriority(o.Priority)
		if err != nil {
			return opts, err
		}
		opts.Priority = p
	}
	return opts, nil
}

// WindowOptions selects a look-back window for reports.
type WindowOptions struct {
	Last string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions, usage string) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow, usage)
}

// Bounds returns the window ending at now and its label.
func (o *WindowOptions) Bounds(now time.Time) (since, until time.Time, label string, err error) {
	d, label, err := timeutil.ParseWindow(o.Last, timeutil.DefaultWindow)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	return now.Add(-d), now, label, nil
}
