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

func addMeeting(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "meeting",
		Aliases: []string{"meetings", "m"},
		Short:   "Meetings with notes and a prep checklist.",
	}

	addMeetingAdd(cmd)
	addMeetingList(cmd)
	addMeetingDone(cmd)
	addMeetingCheck(cmd)
	addMeetingItem(cmd)
	addMeetingRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addMeetingAdd(parent *cobra.Command) {
	at := &options.OnOptions{}
	area := ""
	notes := ""
	var items []string
	title := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a meeting",
		Example: `
amal meeting add 1:1 with Sam --at "5/10 14:00"
amal meeting add planning --at 2024-05-13T09:30 --item "read the doc" --item "bring numbers"
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
				start := time.Time{}
				if when, err := at.GetOn(svc.Now()); err != nil {
					return err
				} else if when != nil {
					start = *when
				}
				accountID, err := svc.AreaID(ctx, area)
				if err != nil {
					return err
				}
				var list strings.Builder
				for _, it := range items {
					fmt.Fprintf(&list, "- [ ] %s\n", it)
				}
				m, err := svc.CreateMeeting(ctx, app.MeetingDraft{
					Title:     title,
					Start:     start,
					AccountID: accountID,
					Notes:     model.MeetingNotes{Before: notes},
					Checklist: list.String(),
				})
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(m)
				}
				_, _ = fmt.Fprintf(color.Output, "Added meeting %s %q at %s\n", m.ID[:8], m.Title, m.StartTime.Local().Format("Mon Jan 2 15:04"))
				return nil
			})
		},
	}

	options.AddOnArgs(cmd, at, "at", "Start time, defaults to now.")
	cmd.Flags().StringVarP(&area, "area", "a", "", "Area (id or name) the meeting belongs to.")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes to read before the meeting.")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Checklist item, repeatable.")
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addMeetingList(parent *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List meetings by start time.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				meetings, err := svc.Meetings(ctx)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(meetings))
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now()}
				pp.TitleWithCount("Meetings", len(meetings))
				pp.Meetings(meetings...)
				return nil
			})
		},
	}

	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addMeetingDone(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "done <meeting>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a meeting's completion.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				m, err := svc.FindMeeting(ctx, args[0])
				if err != nil {
					return err
				}
				if m, err = svc.ToggleMeeting(ctx, m.ID); err != nil {
					return err
				}
				return reportMeeting(m)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addMeetingCheck(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check <meeting> <item>",
		Short: "Toggle a checklist item by id, number or text.",
		Example: `
amal meeting check planning 1
amal meeting check planning "read the doc"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				m, err := svc.FindMeeting(ctx, args[0])
				if err != nil {
					return err
				}
				if m, err = svc.ToggleMeetingItem(ctx, m.ID, args[1]); err != nil {
					return err
				}
				return reportMeeting(m)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addMeetingItem(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "item <meeting> <text>",
		Short: "Append a checklist item.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				m, err := svc.FindMeeting(ctx, args[0])
				if err != nil {
					return err
				}
				if m, err = svc.AddMeetingItem(ctx, m.ID, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				return reportMeeting(m)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addMeetingRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <meeting>",
		Aliases: []string{"delete"},
		Short:   "Delete a meeting.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				m, err := svc.FindMeeting(ctx, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteMeeting(ctx, m.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(color.Output, "Deleted meeting %q\n", m.Title)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}

func reportMeeting(m *model.Meeting) error {
	if output.JSON {
		return output.Write(m)
	}
	pp := printers.PrettyPrint{}
	pp.Meetings(*m)
	return nil
}
