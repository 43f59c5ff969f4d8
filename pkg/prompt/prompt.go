// Package prompt asks the user to pick or confirm things when the command
// runs in a terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/model"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("prompt: cancelled")

// Interactive reports whether cmd reads from a terminal.
func Interactive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Task lets the user choose one of tasks, searching by title.
func Task(cmd *cobra.Command, label string, tasks []model.Task) (*model.Task, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("prompt: no tasks to choose from")
	}
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Title | bold }} {{ .Status | green }}",
		Inactive: "   {{ .Title }} {{ .Status | cyan }}",
		Selected: "{{ .Title | bold }}",
		Details: `
--------- Details ----------
{{ .Description }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.Replace(strings.ToLower(tasks[index].Title), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopCloser{cmd.OutOrStdout()},
	}
	i, _, err := sel.Run()
	if err != nil {
		return nil, cancelled(err)
	}
	return &tasks[i], nil
}

// Confirm asks a yes/no question; anything but yes is false.
func Confirm(cmd *cobra.Command, label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopCloser{cmd.OutOrStdout()},
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, cancelled(err)
	}
	return true, nil
}

func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
