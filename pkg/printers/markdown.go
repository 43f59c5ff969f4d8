package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"tableflip.dev/amal/pkg/model"
)

// NoteMarkdown renders a note body as styled terminal markdown, wrapped at
// width columns.
func (pp *PrettyPrint) NoteMarkdown(n *model.Note) error {
	style := "dark"
	if color.NoColor {
		style = "notty"
	}
	width := pp.Width
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}

	var b strings.Builder
	if n.Title != "" {
		b.WriteString("# " + n.Title + "\n\n")
	}
	b.WriteString(n.Markdown())
	out, err := renderer.Render(b.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(pp.out(), out)
	return err
}
