// Package tui is the terminal agenda. It renders a live.View and applies
// completion toggles, quick adds and task reordering through the service.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/live"
	"tableflip.dev/amal/pkg/ordering"
	"tableflip.dev/amal/pkg/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// messages
type agendaMsg struct{ a agenda.Agenda }
type statusMsg struct {
	text string
	err  error
}

// Model is the bubbletea model of the agenda screen.
type Model struct {
	ctx     context.Context
	svc     *app.Service
	view    *live.View
	updates <-chan agenda.Agenda
	theme   theme.Theme

	agenda agenda.Agenda
	cursor int
	mode   mode
	input  textinput.Model
	status string
	err    error
	loaded bool

	width  int
	height int
}

// New builds a model over view. updates carries every agenda the view
// computes; see Run for the wiring.
func New(ctx context.Context, svc *app.Service, view *live.View, updates <-chan agenda.Agenda) Model {
	ti := textinput.New()
	ti.Placeholder = "New task title"
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "+ "

	return Model{
		ctx:     ctx,
		svc:     svc,
		view:    view,
		updates: updates,
		theme:   theme.Default(),
		input:   ti,
		status:  "j/k move, space toggle, a add, J/K reorder task, q quit",
	}
}

// Run opens the full-screen agenda until the user quits.
func Run(ctx context.Context, svc *app.Service, opts agenda.Options) error {
	updates := make(chan agenda.Agenda, 1)
	view := &live.View{
		Service:  svc,
		Options:  opts,
		Logger:   svc.Logger,
		OnChange: func(a agenda.Agenda) { offer(updates, a) },
	}
	if err := view.Start(ctx); err != nil {
		return err
	}
	defer view.Close()

	program := tea.NewProgram(New(ctx, svc, view, updates), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// offer replaces any undelivered agenda with a.
func offer(ch chan agenda.Agenda, a agenda.Agenda) {
	for {
		select {
		case ch <- a:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (m Model) waitForAgenda() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-m.updates
		if !ok {
			return nil
		}
		return agendaMsg{a}
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForAgenda()
}

// items lists Today then Upcoming, the order the cursor walks.
func (m Model) items() []agenda.UnifiedItem {
	out := make([]agenda.UnifiedItem, 0, m.agenda.Len())
	out = append(out, m.agenda.Today...)
	return append(out, m.agenda.Upcoming...)
}

func (m Model) selected() (agenda.UnifiedItem, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return agenda.UnifiedItem{}, false
	}
	return items[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case agendaMsg:
		id := ""
		if it, ok := m.selected(); ok {
			id = it.ID
		}
		m.agenda = msg.a
		m.loaded = m.view == nil || !m.view.Loading()
		m.cursor = clampCursor(m.cursor, m.agenda.Len())
		if id != "" {
			for i, it := range m.items() {
				if it.ID == id {
					m.cursor = i
					break
				}
			}
		}
		return m, m.waitForAgenda()
	case statusMsg:
		m.status, m.err = msg.text, msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 10
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	n := m.agenda.Len()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, n)
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, n)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = clampCursor(n-1, n)
	case " ", "x", "enter":
		if it, ok := m.selected(); ok {
			return m, m.toggle(it)
		}
	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "J":
		return m, m.move(1)
	case "K":
		return m, m.move(-1)
	case "r":
		if m.view != nil {
			m.view.Refresh()
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.mode = modeList
		m.input.Blur()
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		return m, m.addTask(title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggle(it agenda.UnifiedItem) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		var err error
		switch it.Type {
		case agenda.TypeTask:
			_, err = svc.ToggleTask(ctx, it.ID)
		case agenda.TypeMeeting:
			_, err = svc.ToggleMeeting(ctx, it.ID)
		case agenda.TypeRoutine:
			_, err = svc.ToggleRoutine(ctx, it.ID, time.Time{})
		}
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("Toggled %q", it.Title)}
	}
}

func (m Model) addTask(title string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		if _, err := svc.CreateTask(ctx, app.TaskDraft{Title: title}); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("Added %q", title)}
	}
}

// move shifts the selected task by delta among the active tasks.
func (m Model) move(delta int) tea.Cmd {
	it, ok := m.selected()
	if !ok || it.Type != agenda.TypeTask || m.view == nil {
		return nil
	}
	active := agenda.SplitTasks(m.view.Tasks(), "").Active
	pos := -1
	for i, t := range active {
		if t.ID == it.ID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}
	moved := ordering.Move(active, it.ID, pos+delta)
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		if err := view.Reorder(ctx, moved); err != nil {
			return statusMsg{err: fmt.Errorf("order not saved: %w", err)}
		}
		return statusMsg{text: "Reordered"}
	}
}

func (m Model) View() string {
	var b strings.Builder
	if !m.loaded {
		b.WriteString(m.theme.Panel.Empty.Render("Loading…"))
		b.WriteString("\n")
	} else {
		offset := 0
		m.section(&b, "Today", m.agenda.Today, offset)
		offset += len(m.agenda.Today)
		b.WriteString("\n")
		m.section(&b, "Upcoming", m.agenda.Upcoming, offset)
	}
	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.theme.Footer.Error.Render(m.err.Error()))
	} else {
		b.WriteString(m.theme.Footer.Status.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) section(b *strings.Builder, title string, items []agenda.UnifiedItem, offset int) {
	b.WriteString(m.theme.Panel.Title.Render(title))
	b.WriteString(m.theme.Panel.Count.Render(fmt.Sprintf(" %d", len(items))))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(m.theme.Panel.Empty.Render("  nothing here"))
		b.WriteString("\n")
		return
	}
	for i, it := range items {
		b.WriteString(m.row(it, offset+i == m.cursor))
		b.WriteString("\n")
	}
}

func (m Model) row(it agenda.UnifiedItem, selected bool) string {
	t := m.theme.Item
	check := "[ ]"
	if it.IsCompleted {
		check = "[x]"
	}
	title := it.Title
	if it.IsCompleted {
		title = t.Completed.Render(title)
	}
	if selected {
		title = t.Selected.Render(it.Title)
	}
	parts := []string{" ", check, theme.Swatch(it.AreaColor)}
	if it.Time != nil {
		parts = append(parts, t.Time.Render(clockLabel(*it.Time, m.now())))
	}
	parts = append(parts, title)
	if it.Subtitle != "" {
		width := uint(40)
		if m.width > 60 {
			width = uint(m.width / 3)
		}
		sub := strings.Join(strings.Fields(it.Subtitle), " ")
		parts = append(parts, t.Subtitle.Render(truncate.StringWithTail(sub, width, "…")))
	}
	if it.Blocked {
		parts = append(parts, t.Blocked.Render("blocked"))
	}
	if it.Badge != nil {
		parts = append(parts, m.badge(it.Badge))
	}
	return strings.Join(parts, " ")
}

func (m Model) badge(b *agenda.Badge) string {
	t := m.theme.Item
	switch b.Variant {
	case agenda.VariantDestructive:
		return t.Destructive.Render(b.Text)
	case agenda.VariantWarning:
		return t.Warning.Render(b.Text)
	case agenda.VariantNeutral:
		return t.Neutral.Render(b.Text)
	}
	return t.Default.Render(b.Text)
}

func (m Model) now() time.Time {
	if m.svc != nil && m.svc.Clock != nil {
		return m.svc.Clock.Now()
	}
	return time.Now()
}

func clockLabel(t, now time.Time) string {
	t = t.Local()
	if y, mo, d := t.Date(); y == now.Year() && mo == now.Month() && d == now.Day() {
		return t.Format("15:04")
	}
	return t.Format("Mon 2 15:04")
}
