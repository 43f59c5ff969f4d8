package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/printers"
)

func addNote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "Text and checklist notes.",
	}

	addNoteAdd(cmd)
	addNoteList(cmd)
	addNoteShow(cmd)
	addNoteCheck(cmd)
	addNoteConvert(cmd)
	addNotePin(cmd, "pin", true)
	addNotePin(cmd, "unpin", false)
	addNoteRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addNoteAdd(parent *cobra.Command) {
	title := ""
	area := ""
	asChecklist := false
	pinned := false

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a note",
		Long: `Add a note. The content comes from the arguments, or from stdin when
the only argument is "-".`,
		Example: `
amal note add --title ideas try the new cafe
amal note add --title groceries --checklist "- [ ] milk"
cat todo.md | amal note add --title todo --checklist -
`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			content := strings.Join(args, " ")
			if content == "-" {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				content = string(b)
			}
			if title == "" && strings.TrimSpace(content) == "" {
				return errors.New("a note needs a title or content")
			}
			return withService(func(ctx context.Context, svc *app.Service) error {
				accountID, err := svc.AreaID(ctx, area)
				if err != nil {
					return err
				}
				d := app.NoteDraft{
					Title:     title,
					Content:   content,
					Type:      model.NoteText,
					AccountID: accountID,
					Pinned:    pinned,
				}
				if asChecklist {
					d.Type = model.NoteChecklist
				}
				n, err := svc.CreateNote(ctx, d)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(n)
				}
				_, _ = fmt.Fprintf(color.Output, "Added note %s %q\n", n.ID[:8], n.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Note title.")
	cmd.Flags().StringVarP(&area, "area", "a", "", "Area (id or name) the note belongs to.")
	cmd.Flags().BoolVar(&asChecklist, "checklist", false, "Store the content as a checklist.")
	cmd.Flags().BoolVar(&pinned, "pin", false, "Pin the note.")
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteList(parent *cobra.Command) {
	ids := &options.IDOptions{}
	query := ""

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, pinned first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				notes, err := svc.Notes(ctx, query)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(notes))
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID, Now: svc.Now()}
				pp.TitleWithCount("Notes", len(notes))
				pp.Notes(notes...)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show notes containing this text.")
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteShow(parent *cobra.Command) {
	ids := &options.IDOptions{}
	markdown := false
	render := false

	cmd := &cobra.Command{
		Use:   "show <note>",
		Short: "Print a note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				n, err := svc.FindNote(ctx, args[0])
				if err != nil {
					return err
				}
				if render && !output.JSON {
					pp := printers.PrettyPrint{}
					return pp.NoteMarkdown(n)
				}
				return reportNote(n, ids.ShowID, markdown)
			})
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the raw markdown body.")
	cmd.Flags().BoolVar(&render, "render", false, "Render the body as styled markdown.")
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteCheck(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check <note> <item>",
		Short: "Toggle a checklist item by id, number or text.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				n, err := svc.FindNote(ctx, args[0])
				if err != nil {
					return err
				}
				if n, err = svc.ToggleNoteItem(ctx, n.ID, args[1]); err != nil {
					return err
				}
				return reportNote(n, true, false)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteConvert(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "convert <note> <text|checklist>",
		Short: "Switch a note between text and checklist.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			t := model.NoteType(strings.ToLower(args[1]))
			if t != model.NoteText && t != model.NoteChecklist {
				return fmt.Errorf("unknown note type %q, want text or checklist", args[1])
			}
			return withService(func(ctx context.Context, svc *app.Service) error {
				n, err := svc.FindNote(ctx, args[0])
				if err != nil {
					return err
				}
				if n, err = svc.ConvertNote(ctx, n.ID, t); err != nil {
					return err
				}
				return reportNote(n, false, false)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNotePin(parent *cobra.Command, use string, pinned bool) {
	cmd := &cobra.Command{
		Use:   use + " <note>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				n, err := svc.FindNote(ctx, args[0])
				if err != nil {
					return err
				}
				if n, err = svc.PinNote(ctx, n.ID, pinned); err != nil {
					return err
				}
				if output.JSON {
					return output.Write(n)
				}
				_, _ = fmt.Fprintf(color.Output, "%sned note %q\n", strings.ToUpper(use[:1])+use[1:], n.Title)
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <note>",
		Aliases: []string{"delete"},
		Short:   "Delete a note.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				n, err := svc.FindNote(ctx, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteNote(ctx, n.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(color.Output, "Deleted note %q\n", n.Title)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}

func reportNote(n *model.Note, showID, markdown bool) error {
	if output.JSON {
		return output.Write(n)
	}
	if markdown {
		_, _ = fmt.Fprintln(color.Output, n.Markdown())
		return nil
	}
	pp := printers.PrettyPrint{ShowID: showID}
	pp.Note(n)
	return nil
}
