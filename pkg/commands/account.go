package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/commands/options"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/printers"
)

func addAccount(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "area",
		Aliases: []string{"areas", "account", "accounts"},
		Short:   "Areas group tasks, routines, meetings and notes under a colour.",
	}

	addAccountAdd(cmd)
	addAccountList(cmd)
	addAccountArchive(cmd, "archive", true)
	addAccountArchive(cmd, "restore", false)
	addAccountRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addAccountAdd(parent *cobra.Command) {
	description := ""
	colour := ""
	name := ""

	var presets []string
	for _, p := range model.PresetColors {
		presets = append(presets, strings.ToLower(p.Name))
	}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an area",
		Long:  "Colours are a #rrggbb value or a preset: " + strings.Join(presets, ", ") + ".",
		Example: `
amal area add work --color ocean
amal area add home --color "#27ae60" --description "house and garden"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(func(ctx context.Context, svc *app.Service) error {
				a, err := svc.CreateAccount(ctx, name, description, colour)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(a)
				}
				_, _ = fmt.Fprintf(color.Output, "Added area %s %s\n", printers.Swatch(a.Color), a.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What the area is for.")
	cmd.Flags().StringVarP(&colour, "color", "c", "", "Area colour.")
	_ = cmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return presets, cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addAccountList(parent *cobra.Command) {
	ids := &options.IDOptions{}
	all := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List areas.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				accounts, err := svc.Accounts(ctx, all)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Write(nonNil(accounts))
				}
				pp := printers.PrettyPrint{ShowID: ids.ShowID}
				pp.TitleWithCount("Areas", len(accounts))
				pp.Accounts(accounts...)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived areas.")
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addAccountArchive(parent *cobra.Command, use string, archived bool) {
	cmd := &cobra.Command{
		Use:   use + " <area>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " an area.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				a, err := svc.FindAccount(ctx, args[0])
				if err != nil {
					return err
				}
				if a, err = svc.ArchiveAccount(ctx, a.ID, archived); err != nil {
					return err
				}
				if output.JSON {
					return output.Write(a)
				}
				_, _ = fmt.Fprintf(color.Output, "Area %s is %s\n", a.Name, a.Status)
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addAccountRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <area>",
		Aliases: []string{"delete"},
		Short:   "Delete an area. Items in it keep their dangling area id.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withService(func(ctx context.Context, svc *app.Service) error {
				a, err := svc.FindAccount(ctx, args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteAccount(ctx, a.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(color.Output, "Deleted area %s\n", a.Name)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}
