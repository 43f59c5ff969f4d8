package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/printers"
)

func addRoutine(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "routine",
		Aliases: []string{"routines", "r"},
		Short:   "Recurring habits with a per-user completion ledger.",
	}

	addRoutineAdd(cmd)
	addRoutineList(cmd)
	addRoutineDone(cmd)
	addRoutineCalendar(cmd)
	addRoutineRemove(cmd)

	topLevel.AddCommand(cmd)
}

// routineDraft validates the schedule flags against each other.
func routineDraft(title, area string, ro *options.RoutineOptions) (app.RoutineDraft, error) {
	schedule := model.ParseSchedule(strings.ToLower(ro.Schedule))
	if schedule == model.ScheduleLegacy {
		return app.RoutineDraft{}, fmt.Errorf("unknown schedule %q, want daily, weekly, monthly or custom", ro.Schedule)
	}
	days, err := options.ParseDays(ro.Days)
	if err != nil {
		return app.RoutineDraft{}, err
	}
	switch schedule {
	case model.ScheduleMonthly:
		if ro.MonthDay < 1 || ro.MonthDay > 31 {
			return app.RoutineDraft{}, errors.New("monthly routines need --month-day between 1 and 31")
		}
	case model.ScheduleWeekly, model.ScheduleCustom:
		if len(days) == 0 {
			return app.RoutineDraft{}, fmt.Errorf("%s routines need --days", schedule)
		}
	}
	d := app.RoutineDraft{
		Title:     title,
		Schedule:  schedule,
		Days:      days,
		MonthDay:  ro.MonthDay,
		Time:      ro.Time,
		Type:      model.RoutineFixed,
		AccountID: area,
		IsShared:  ro.Shared,
	}
	if ro.Flexible {
		d.Type = model.RoutineFlexible
	}
	return d, nil
}

func addRoutineAdd(parent *cobra.Command) {
	ro := &options.RoutineOptions{}
	title := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a routine",
		Example: `
amal routine add stretch
amal routine add gym --schedule weekly --days mon,wed,fri --time 07:00
amal routine add pay rent --schedule monthly --month-day 1
amal routine add water plants --schedule custom --days weekends --shared
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(func(ctx context.Context, svc *app.Service) error {
				area, err := svc.AreaID(ctx, ro.Area)
				if err != nil {
					return err
				}
				d, err := routineDraft(title, area, ro)
				if err != nil {
					return err
				}
				r, err := svc.CreateRoutine(ctx, d)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(r)
				}
				_, _ = fmt.Fprintf(color.Output, "Added routine %s %q\n", r.ID[:8], r.Title)
				return nil
			})
		},
	}

	options.AddRoutineArgs(cmd, ro)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addRoutineList(parent *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List routines with their schedule and streak.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				routines, err := svc.Routines(ctx)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(routines))
				}
				user, _ := svc.User(ctx)
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now(), User: user}
				pp.TitleWithCount("Routines", len(routines))
				pp.Routines(routines...)
				return nil
			})
		},
	}

	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addRoutineDone(parent *cobra.Command) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "done <routine>",
		Aliases: []string{"toggle"},
		Short:   "Toggle your completion of a routine for a day.",
		Example: `
amal routine done stretch
amal routine done stretch --on 2024-05-08
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				r, err := svc.FindRoutine(ctx, args[0])
				if err != nil {
					return err
				}
				date := time.Time{}
				if when, err := on.GetOn(svc.Now()); err != nil {
					return err
				} else if when != nil {
					date = *when
				}
				done, err := svc.ToggleRoutine(ctx, r.ID, date)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(map[string]any{"id": r.ID, "completed": done})
				}
				state := "not done"
				if done {
					state = "done"
				}
				_, _ = fmt.Fprintf(color.Output, "Routine %q is %s\n", r.Title, state)
				return nil
			})
		},
	}

	options.AddOnArgs(cmd, on, "on", "Day to toggle, defaults to today.")
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addRoutineCalendar(parent *cobra.Command) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "cal <routine>",
		Aliases: []string{"calendar"},
		Short:   "Show a month of a routine: due days and completions.",
		Example: `
amal routine cal stretch
amal routine cal stretch --month 4/1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				r, err := svc.FindRoutine(ctx, args[0])
				if err != nil {
					return err
				}
				then := svc.Now()
				if when, err := on.GetOn(then); err != nil {
					return err
				} else if when != nil {
					then = *when
				}
				user, _ := svc.User(ctx)
				pp := printers.PrettyPrint{Now: svc.Now(), User: user}
				pp.Title(r.Title)
				pp.Calendar(r, then)
				return nil
			})
		},
	}

	options.AddOnArgs(cmd, on, "month", "Any day in the month to show.")
	parent.AddCommand(cmd)
}

func addRoutineRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <routine>",
		Aliases: []string{"delete"},
		Short:   "Delete a routine and its history.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				r, err := svc.FindRoutine(ctx, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteRoutine(ctx, r.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(color.Output, "Deleted routine %q\n", r.Title)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}
