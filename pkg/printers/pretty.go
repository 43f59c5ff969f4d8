package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/checklist"
	"tableflip.dev/amal/pkg/ledger"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/recurrence"
)

// PrettyPrint renders entities for the terminal.
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	// Width bounds subtitles. Zero uses DefaultWidth.
	Width int
	Now   time.Time
	User  string
}

const DefaultWidth = 48

var (
	spacing = strings.Repeat(" ", len("3f2c1b9e  "))
	profile = termenv.ColorProfile()
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) width() uint {
	if pp.Width <= 0 {
		return DefaultWidth
	}
	return uint(pp.Width)
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// shortID keeps ids readable in tables; lookups accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Swatch is a coloured dot for an area colour, or a blank when unset.
func Swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return termenv.String("●").Foreground(profile.Color(hex)).String()
}

func (pp *PrettyPrint) subtitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate.StringWithTail(s, pp.width(), "…")
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// Badge colours a badge by its variant.
func Badge(b *agenda.Badge) string {
	if b == nil {
		return ""
	}
	switch b.Variant {
	case agenda.VariantDestructive:
		return color.New(color.FgRed, color.Bold).Sprint(b.Text)
	case agenda.VariantWarning:
		return color.New(color.FgYellow).Sprint(b.Text)
	case agenda.VariantNeutral:
		return color.New(color.Faint).Sprint(b.Text)
	}
	return color.New(color.FgCyan).Sprint(b.Text)
}

func typeGlyph(t agenda.Type) string {
	switch t {
	case agenda.TypeRoutine:
		return "↻"
	case agenda.TypeMeeting:
		return "◷"
	}
	return "•"
}

func when(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	local := t.Local()
	y, m, d := now.Date()
	ty, tm, td := local.Date()
	if y == ty && m == tm && d == td {
		return local.Format("15:04")
	}
	return local.Format("Mon Jan 2 15:04")
}

// Agenda prints the Today and Upcoming partitions.
func (pp *PrettyPrint) Agenda(a agenda.Agenda) {
	pp.TitleWithCount("Today", len(a.Today))
	pp.Items(a.Today...)
	pp.TitleWithCount("Upcoming", len(a.Upcoming))
	pp.Items(a.Upcoming...)
}

// Items prints agenda items in the order given.
func (pp *PrettyPrint) Items(items ...agenda.UnifiedItem) {
	if len(items) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)
	strike := color.New(color.Faint, color.CrossedOut)
	blocked := color.New(color.FgMagenta)

	tbl := uitable.New()
	tbl.Separator = " "
	now := pp.now()
	for _, it := range items {
		title := it.Title
		if it.IsCompleted {
			title = strike.Sprint(title)
		}
		extra := Badge(it.Badge)
		if it.Blocked {
			extra = strings.TrimSpace(blocked.Sprint("blocked") + " " + extra)
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(it.ID)))
		}
		row = append(row,
			check(it.IsCompleted),
			typeGlyph(it.Type),
			Swatch(it.AreaColor),
			when(it.Time, now),
			title,
			faint.Sprint(pp.subtitle(it.Subtitle)),
			extra,
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Tasks prints the active, snoozed and finished task lists.
func (pp *PrettyPrint) Tasks(v agenda.TaskViews, areas agenda.AreaLookup) {
	pp.TitleWithCount("Active", len(v.Active))
	pp.TaskList(areas, v.Active...)
	if len(v.Snoozed) > 0 {
		pp.TitleWithCount("Snoozed", len(v.Snoozed))
		pp.TaskList(areas, v.Snoozed...)
	}
	if len(v.Finished) > 0 {
		pp.TitleWithCount("Finished", len(v.Finished))
		pp.TaskList(areas, v.Finished...)
	}
}

// TaskList prints tasks with their status and deadline.
func (pp *PrettyPrint) TaskList(areas agenda.AreaLookup, tasks ...model.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	now := pp.now()
	for _, t := range tasks {
		c := ""
		if areas != nil && t.AccountID != "" {
			c, _ = areas(t.AccountID)
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(t.ID)))
		}
		row = append(row,
			check(t.Done()),
			Swatch(c),
			faint.Sprint(string(t.Status)),
			when(t.Deadline, now),
			t.Title,
			faint.Sprint(pp.subtitle(t.Description)),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Routines prints each routine with its schedule, today's completion and
// when it is next due.
func (pp *PrettyPrint) Routines(routines ...model.Routine) {
	if len(routines) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	now := pp.now()
	for i := range routines {
		r := &routines[i]
		next := "today"
		switch n := recurrence.DaysUntilNext(r, now); n {
		case 0:
		case 1:
			next = "tomorrow"
		default:
			next = fmt.Sprintf("in %d days", n)
		}
		streak := ledger.Streak(r, now, pp.User, recurrence.IsDueOn)
		shared := ""
		if r.IsShared {
			shared = "shared"
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(r.ID)))
		}
		row = append(row,
			check(ledger.IsCompletedOn(r, now, pp.User)),
			r.Title,
			faint.Sprint(recurrence.Label(r)),
			r.Time,
			faint.Sprint(next),
			faint.Sprintf("streak %d", streak),
			faint.Sprint(shared),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Meetings prints meetings with their checklist progress.
func (pp *PrettyPrint) Meetings(meetings ...model.Meeting) {
	if len(meetings) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	now := pp.now()
	for _, m := range meetings {
		start := m.StartTime
		done, total := checklist.Progress(m.Checklist)
		progress := ""
		if total > 0 {
			progress = fmt.Sprintf("%d/%d", done, total)
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(m.ID)))
		}
		row = append(row,
			check(m.IsCompleted),
			when(&start, now),
			m.Title,
			faint.Sprint(progress),
			faint.Sprint(pp.subtitle(m.Notes.Before)),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Accounts prints areas with their colour swatch.
func (pp *PrettyPrint) Accounts(accounts ...model.Account) {
	if len(accounts) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	for _, a := range accounts {
		status := ""
		if a.Archived() {
			status = "archived"
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(a.ID)))
		}
		row = append(row,
			Swatch(a.Color),
			a.Name,
			faint.Sprint(a.Color),
			faint.Sprint(status),
			faint.Sprint(pp.subtitle(a.Description)),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Notes prints one line per note, pinned notes marked.
func (pp *PrettyPrint) Notes(notes ...model.Note) {
	if len(notes) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	for _, n := range notes {
		pin := " "
		if n.Pinned {
			pin = "*"
		}
		summary := n.Content
		if n.Type == model.NoteChecklist {
			done, total := checklist.Progress(n.Items)
			summary = fmt.Sprintf("%d/%d done", done, total)
		}
		title := n.Title
		if title == "" {
			title = faint.Sprint("untitled")
		}
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(shortID(n.ID)))
		}
		row = append(row, pin, title, faint.Sprint(pp.subtitle(summary)))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Note prints a single note in full.
func (pp *PrettyPrint) Note(n *model.Note) {
	title := n.Title
	if title == "" {
		title = "untitled"
	}
	pp.Title(title)
	if n.Type != model.NoteChecklist {
		_, _ = fmt.Fprintln(pp.out(), n.Content)
		pp.NewLine()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for i, it := range n.Items {
		prefix := ""
		if pp.ShowID {
			prefix = y.Sprintf("%-3d", i+1)
		}
		_, _ = fmt.Fprintf(pp.out(), "%s%s %s\n", prefix, check(it.Checked), it.Text)
	}
	pp.NewLine()
}
