package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/model"
)

// TaskOptions
type TaskOptions struct {
	Description  string
	Area         string
	Meeting      string
	Routine      string
	Dependencies []string
	Links        []string
	Deadline     OnOptions
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Longer description of the task.")
	cmd.Flags().StringVarP(&o.Area, "area", "a", "",
		"Area (id or name) the task belongs to.")
	cmd.Flags().StringVar(&o.Meeting, "meeting", "",
		"Meeting id the task prepares for.")
	cmd.Flags().StringVar(&o.Routine, "routine", "",
		"Routine id the task came from.")
	cmd.Flags().StringSliceVar(&o.Dependencies, "depends-on", nil,
		"Task ids that must be done first.")
	cmd.Flags().StringSliceVar(&o.Links, "link", nil,
		"Reference links, as url or label=url.")
	AddOnArgs(cmd, &o.Deadline, "deadline", "Deadline for the task.")
}

// RoutineOptions
type RoutineOptions struct {
	Schedule string
	Days     []string
	MonthDay int
	Time     string
	Flexible bool
	Area     string
	Shared   bool
}

func AddRoutineArgs(cmd *cobra.Command, o *RoutineOptions) {
	cmd.Flags().StringVarP(&o.Schedule, "schedule", "s", "daily",
		"One of daily, weekly, monthly or custom.")
	cmd.Flags().StringSliceVar(&o.Days, "days", nil,
		"Days of the week, for example mon,wed,fri or 1,3,5.")
	cmd.Flags().IntVar(&o.MonthDay, "month-day", 0,
		"Day of the month for monthly routines.")
	cmd.Flags().StringVar(&o.Time, "time", "",
		"Time of day, HH:MM.")
	cmd.Flags().BoolVar(&o.Flexible, "flexible", false,
		"The time of day is a suggestion.")
	cmd.Flags().StringVarP(&o.Area, "area", "a", "",
		"Area (id or name) the routine belongs to.")
	cmd.Flags().BoolVar(&o.Shared, "shared", false,
		"Let other users tick this routine off.")
}

// References turns --link values into task references. "label=url" keeps
// the label; a bare value is its own label. mailto: links are emails.
func (o *TaskOptions) References() []model.Reference {
	var refs []model.Reference
	for _, l := range o.Links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		label, url := l, l
		if i := strings.Index(l, "="); i > 0 {
			label, url = strings.TrimSpace(l[:i]), strings.TrimSpace(l[i+1:])
		}
		typ := model.ReferenceLink
		if strings.HasPrefix(url, "mailto:") {
			typ = model.ReferenceEmail
		}
		refs = append(refs, model.Reference{Type: typ, Label: label, URL: url})
	}
	return refs
}
