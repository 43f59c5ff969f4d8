package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
)

// handlers binds tool and resource callbacks to one service.
type handlers struct {
	svc *app.Service
}

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func registerTools(srv *server.MCPServer, h *handlers) {
	tools := []struct {
		tool mcp.Tool
		fn   toolHandler
	}{
		{mcp.NewTool("get_agenda",
			mcp.WithDescription("Today and upcoming items across tasks, routines and meetings."),
			mcp.WithString("area", mcp.Description("Area name or id to filter by.")),
			mcp.WithString("query", mcp.Description("Keep items whose title or description contains this text.")),
			mcp.WithBoolean("hide_snoozed", mcp.Description("Drop tasks that are waiting.")),
		), h.getAgenda},
		{mcp.NewTool("list_tasks",
			mcp.WithDescription("Tasks grouped into active, snoozed and finished, in manual order."),
			mcp.WithString("query", mcp.Description("Text filter on title and description.")),
		), h.listTasks},
		{mcp.NewTool("create_task",
			mcp.WithDescription("Create a task in the next state."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title.")),
			mcp.WithString("description", mcp.Description("Longer description.")),
			mcp.WithString("area", mcp.Description("Area name or id.")),
			mcp.WithString("deadline", mcp.Description("RFC3339 instant or YYYY-MM-DD.")),
		), h.createTask},
		{mcp.NewTool("set_task_status",
			mcp.WithDescription("Move a task to another status."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task id, id prefix or title.")),
			mcp.WithString("status", mcp.Required(),
				mcp.Description("New status."),
				mcp.Enum(statuses()...),
			),
		), h.setTaskStatus},
		{mcp.NewTool("toggle_task",
			mcp.WithDescription("Mark a task done, or reopen a finished one."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task id, id prefix or title.")),
		), h.toggleTask},
		{mcp.NewTool("move_task",
			mcp.WithDescription("Move a task to a zero-based position in the manual order."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task id, id prefix or title.")),
			mcp.WithNumber("position", mcp.Required(), mcp.Description("Zero-based target position.")),
		), h.moveTask},
		{mcp.NewTool("list_routines",
			mcp.WithDescription("Routines visible to the user with their schedule."),
		), h.listRoutines},
		{mcp.NewTool("toggle_routine",
			mcp.WithDescription("Flip a routine's completion for a day."),
			mcp.WithString("routine", mcp.Required(), mcp.Description("Routine id, id prefix or title.")),
			mcp.WithString("date", mcp.Description("Day to toggle, YYYY-MM-DD. Defaults to today.")),
		), h.toggleRoutine},
		{mcp.NewTool("list_meetings",
			mcp.WithDescription("Meetings with their start time and checklist."),
		), h.listMeetings},
		{mcp.NewTool("toggle_meeting",
			mcp.WithDescription("Flip a meeting's completion."),
			mcp.WithString("meeting", mcp.Required(), mcp.Description("Meeting id, id prefix or title.")),
		), h.toggleMeeting},
		{mcp.NewTool("list_notes",
			mcp.WithDescription("Notes, pinned first."),
			mcp.WithString("query", mcp.Description("Text filter on title and body.")),
		), h.listNotes},
		{mcp.NewTool("create_note",
			mcp.WithDescription("Create a text or checklist note."),
			mcp.WithString("content", mcp.Required(), mcp.Description("Body text; for checklists one item per line.")),
			mcp.WithString("title", mcp.Description("Note title.")),
			mcp.WithString("type", mcp.Description("Note type."), mcp.Enum(string(model.NoteText), string(model.NoteChecklist))),
			mcp.WithBoolean("pinned", mcp.Description("Pin the note.")),
		), h.createNote},
		{mcp.NewTool("toggle_note_item",
			mcp.WithDescription("Check or uncheck one checklist item of a note."),
			mcp.WithString("note", mcp.Required(), mcp.Description("Note id, id prefix or title.")),
			mcp.WithString("item", mcp.Required(), mcp.Description("Item id or 1-based position.")),
		), h.toggleNoteItem},
	}
	for _, t := range tools {
		srv.AddTool(t.tool, t.fn)
	}
}

func (h *handlers) getAgenda(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Area        string `json:"area"`
		Query       string `json:"query"`
		HideSnoozed bool   `json:"hide_snoozed"`
	}
	if err := request.BindArguments(&args); err != nil {
		return invalid(err), nil
	}
	area, err := h.svc.AreaID(ctx, args.Area)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := h.svc.Agenda(ctx, agenda.Options{Area: area, Query: args.Query, HideSnoozed: args.HideSnoozed})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(a)
}

func (h *handlers) listTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.svc.Tasks(ctx, request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(v)
}

func (h *handlers) createTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Area        string `json:"area"`
		Deadline    string `json:"deadline"`
	}
	if err := request.BindArguments(&args); err != nil {
		return invalid(err), nil
	}
	area, err := h.svc.AreaID(ctx, args.Area)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d := app.TaskDraft{Title: args.Title, Description: args.Description, AccountID: area}
	if strings.TrimSpace(args.Deadline) != "" {
		when, err := model.ParseTime(args.Deadline)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid deadline: %v", err)), nil
		}
		d.Deadline = &when
	}
	t, err := h.svc.CreateTask(ctx, d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(t)
}

func (h *handlers) setTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := model.ParseStatus(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := h.svc.FindTask(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if t, err = h.svc.SetTaskStatus(ctx, t.ID, status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(t)
}

func (h *handlers) toggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := h.svc.FindTask(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if t, err = h.svc.ToggleTask(ctx, t.ID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(t)
}

func (h *handlers) moveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Task     string  `json:"task"`
		Position float64 `json:"position"`
	}
	if err := request.BindArguments(&args); err != nil {
		return invalid(err), nil
	}
	if args.Position < 0 {
		return mcp.NewToolResultError("position must not be negative"), nil
	}
	t, err := h.svc.FindTask(ctx, args.Task)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tasks, err := h.svc.MoveTask(ctx, t.ID, int(args.Position))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("order not saved: %v", err)), nil
	}
	return toJSONResult(map[string]any{"tasks": tasks})
}

func (h *handlers) listRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rs, err := h.svc.Routines(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{"routines": rs, "count": len(rs)})
}

func (h *handlers) toggleRoutine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("routine")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var day time.Time
	if v := strings.TrimSpace(request.GetString("date", "")); v != "" {
		if day, err = time.ParseInLocation("2006-01-02", v, time.Local); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
		}
	}
	r, err := h.svc.FindRoutine(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	done, err := h.svc.ToggleRoutine(ctx, r.ID, day)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{"id": r.ID, "title": r.Title, "completed": done})
}

func (h *handlers) listMeetings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, err := h.svc.Meetings(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{"meetings": ms, "count": len(ms)})
}

func (h *handlers) toggleMeeting(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("meeting")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := h.svc.FindMeeting(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if m, err = h.svc.ToggleMeeting(ctx, m.ID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(m)
}

func (h *handlers) listNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := h.svc.Notes(ctx, request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{"notes": ns, "count": len(ns)})
}

func (h *handlers) createNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Type    string `json:"type"`
		Pinned  bool   `json:"pinned"`
	}
	if err := request.BindArguments(&args); err != nil {
		return invalid(err), nil
	}
	d := app.NoteDraft{Title: args.Title, Content: args.Content, Pinned: args.Pinned, Type: model.NoteText}
	if args.Type != "" {
		d.Type = model.NoteType(args.Type)
	}
	n, err := h.svc.CreateNote(ctx, d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(n)
}

func (h *handlers) toggleNoteItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := request.RequireString("item")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := h.svc.FindNote(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n, err = h.svc.ToggleNoteItem(ctx, n.ID, item); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(n)
}

func statuses() []string {
	var out []string
	for _, s := range model.Statuses() {
		out = append(out, string(s))
	}
	return out
}

func invalid(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
