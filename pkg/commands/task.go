package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/printers"
	"tableflip.dev/amal/pkg/prompt"
)

func addTask(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Add, list and update tasks.",
	}

	addTaskAdd(cmd)
	addTaskList(cmd)
	addTaskStatus(cmd)
	addTaskDone(cmd)
	addTaskEdit(cmd)
	addTaskMove(cmd)
	addTaskLogbook(cmd)
	addTaskRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addTaskAdd(parent *cobra.Command) {
	to := &options.TaskOptions{}
	title := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Example: `
amal task add do this task
amal task add write report --deadline 3/14 --area work
amal task add ship it --depends-on 1a2b3c4d
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(func(ctx context.Context, svc *app.Service) error {
				deadline, err := to.Deadline.GetOn(svc.Now())
				if err != nil {
					return err
				}
				area, err := svc.AreaID(ctx, to.Area)
				if err != nil {
					return err
				}
				dependencies, err := svc.TaskIDs(ctx, to.Dependencies)
				if err != nil {
					return err
				}
				d := app.TaskDraft{
					Title:        title,
					Description:  to.Description,
					AccountID:    area,
					Deadline:     deadline,
					Dependencies: dependencies,
					References:   to.References(),
				}
				if to.Meeting != "" {
					m, err := svc.FindMeeting(ctx, to.Meeting)
					if err != nil {
						return err
					}
					d.MeetingID = m.ID
				}
				if to.Routine != "" {
					r, err := svc.FindRoutine(ctx, to.Routine)
					if err != nil {
						return err
					}
					d.RoutineID = r.ID
				}
				t, err := svc.CreateTask(ctx, d)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(t)
				}
				_, _ = fmt.Fprintf(color.Output, "Added task %s %q\n", t.ID[:8], t.Title)
				return nil
			})
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskList(parent *cobra.Command) {
	ids := &options.IDOptions{}
	query := ""

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in manual order.",
		Example: `
amal task list
amal task list -q report -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				v, err := svc.Tasks(ctx, query)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(v)
				}
				areas, err := svc.Accounts(ctx, true)
				if err != nil {
					return err
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now()}
				pp.Tasks(v, agenda.AreaIndex(areas))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show tasks whose title or description contains this text.")
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskStatus(parent *cobra.Command) {
	var statuses []string
	for _, s := range model.Statuses() {
		statuses = append(statuses, string(s))
	}

	cmd := &cobra.Command{
		Use:   "status <task> <status>",
		Short: "Move a task to another status.",
		Long:  "Statuses: " + strings.Join(statuses, ", "),
		Example: `
amal task status 1a2b waiting
amal task status "write report" done
`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withService(func(ctx context.Context, svc *app.Service) error {
				t, err := svc.FindTask(ctx, args[0])
				if err != nil {
					return err
				}
				t, err = svc.SetTaskStatus(ctx, t.ID, status)
				if err != nil {
					return err
				}
				return reportTask(t, "Task %q is now "+string(t.Status))
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskDone(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "done [task]...",
		Aliases: []string{"toggle"},
		Short:   "Toggle tasks between done and next.",
		Long: `Toggle tasks between done and next. With no arguments in a terminal,
pick an active task from a searchable list.`,
		Example: `
amal task done 1a2b
amal task done 1a2b 3c4d
amal task done
`,
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !prompt.Interactive(cmd) {
				return errors.New("requires at least 1 task")
			}
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				if len(args) == 0 {
					v, err := svc.Tasks(ctx, "")
					if err != nil {
						return err
					}
					t, err := prompt.Task(cmd, "Toggle which task", v.Active)
					if err != nil {
						return err
					}
					args = []string{t.ID}
				}
				for _, ref := range args {
					t, err := svc.FindTask(ctx, ref)
					if err != nil {
						return err
					}
					t, err = svc.ToggleTask(ctx, t.ID)
					if err != nil {
						return err
					}
					if err := reportTask(t, "Task %q is now "+string(t.Status)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskEdit(parent *cobra.Command) {
	to := &options.TaskOptions{}
	title := ""
	clearDeadline := false

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change a task's fields.",
		Example: `
amal task edit 1a2b --title "write the report"
amal task edit 1a2b --deadline "3/14 17:00"
amal task edit 1a2b --no-deadline --depends-on 3c4d
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				t, err := svc.FindTask(ctx, args[0])
				if err != nil {
					return err
				}
				deadline, err := to.Deadline.GetOn(svc.Now())
				if err != nil {
					return err
				}
				area, err := svc.AreaID(ctx, to.Area)
				if err != nil {
					return err
				}
				dependencies, err := svc.TaskIDs(ctx, to.Dependencies)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				t, err = svc.UpdateTask(ctx, t.ID, func(t *model.Task) error {
					if flags.Changed("title") {
						t.Title = title
					}
					if flags.Changed("description") {
						t.Description = to.Description
					}
					if flags.Changed("area") {
						t.AccountID = area
					}
					if deadline != nil {
						t.Deadline = deadline
					}
					if clearDeadline {
						t.Deadline = nil
					}
					if flags.Changed("depends-on") {
						t.Dependencies = dependencies
					}
					if flags.Changed("link") {
						t.References = to.References()
					}
					return nil
				})
				if err != nil {
					return err
				}
				return reportTask(t, "Updated task %q")
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title.")
	cmd.Flags().BoolVar(&clearDeadline, "no-deadline", false, "Remove the deadline.")
	options.AddTaskArgs(cmd, to)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskMove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <task> <position>",
		Short: "Move an active task to a position in the manual order (1 is the top).",
		Example: `
amal task move 1a2b 1
`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("position must be a number from 1, got %q", args[1])
			}
			return withService(func(ctx context.Context, svc *app.Service) error {
				t, err := svc.FindTask(ctx, args[0])
				if err != nil {
					return err
				}
				tasks, err := svc.MoveTask(ctx, t.ID, pos-1)
				if err != nil {
					return err
				}
				v := agenda.SplitTasks(tasks, "")
				if output.JSON {
					return output.Write(v.Active)
				}
				pp := printers.PrettyPrint{Now: svc.Now()}
				pp.TaskList(nil, v.Active...)
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskLogbook(parent *cobra.Command) {
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "logbook",
		Short: "Finished tasks, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				tasks, err := svc.Logbook(ctx)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(tasks))
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now()}
				pp.TitleWithCount("Logbook", len(tasks))
				pp.TaskList(nil, tasks...)
				return nil
			})
		},
	}

	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTaskRemove(parent *cobra.Command) {
	cascade := false
	yes := false

	cmd := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task.",
		Example: `
amal task rm 1a2b
amal task rm 1a2b --cascade
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				t, err := svc.FindTask(ctx, args[0])
				if err != nil {
					return err
				}
				if !yes && prompt.Interactive(cmd) {
					ok, err := prompt.Confirm(cmd, fmt.Sprintf("Delete task %q", t.Title))
					if err != nil || !ok {
						return err
					}
				}
				if err := svc.DeleteTask(ctx, t.ID, cascade); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(color.Output, "Deleted task %q\n", t.Title)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also remove the task from other tasks' dependencies.")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	parent.AddCommand(cmd)
}

// reportTask prints t as JSON or a one-line confirmation; format takes the
// title.
func reportTask(t *model.Task, format string) error {
	if output.JSON {
		return output.Write(t)
	}
	_, _ = fmt.Fprintf(color.Output, format+"\n", t.Title)
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
