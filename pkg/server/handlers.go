package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/ordering"
	"tableflip.dev/amal/pkg/timeutil"
)

func (s *Server) getAgenda(c *fiber.Ctx) error {
	opts := agenda.Options{
		Query:       c.Query("query"),
		Area:        c.Query("area"),
		HideSnoozed: truthy(c.Query("hideSnoozed")),
	}
	if w := c.Query("window"); w != "" {
		d, _, err := timeutil.ParseWindow(w, timeutil.DefaultWindow)
		if err != nil {
			return badRequest(err.Error())
		}
		opts.Window = d
	}
	if p := c.Query("priority"); p != "" {
		priority, err := agenda.ParsePriority(p)
		if err != nil {
			return badRequest(err.Error())
		}
		opts.Priority = priority
	}
	a, err := s.svc.Agenda(c.UserContext(), opts)
	if err != nil {
		return err
	}
	if a.Today == nil {
		a.Today = []agenda.UnifiedItem{}
	}
	if a.Upcoming == nil {
		a.Upcoming = []agenda.UnifiedItem{}
	}
	return c.JSON(a)
}

func (s *Server) getReport(c *fiber.Ctx) error {
	d, _, err := timeutil.ParseWindow(c.Query("last"), timeutil.DefaultWindow)
	if err != nil {
		return badRequest(err.Error())
	}
	until := s.now()
	result, err := s.svc.Report(c.UserContext(), until.Add(-d), until)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

type taskRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	AccountID    string            `json:"accountId"`
	MeetingID    string            `json:"meetingId"`
	RoutineID    string            `json:"routineId"`
	Deadline     *time.Time        `json:"deadline"`
	Dependencies []string          `json:"dependencies"`
	References   []model.Reference `json:"references"`
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	v, err := s.svc.Tasks(c.UserContext(), c.Query("query"))
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req taskRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	t, err := s.svc.CreateTask(c.UserContext(), app.TaskDraft{
		Title:        req.Title,
		Description:  req.Description,
		AccountID:    req.AccountID,
		MeetingID:    req.MeetingID,
		RoutineID:    req.RoutineID,
		Deadline:     req.Deadline,
		Dependencies: req.Dependencies,
		References:   req.References,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) getTask(c *fiber.Ctx) error {
	t, err := s.svc.Task(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) logbook(c *fiber.Ctx) error {
	tasks, err := s.svc.Logbook(c.UserContext())
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(tasks)
}

func (s *Server) setTaskStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := parse(c, &req); err != nil {
		return err
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		return badRequest(err.Error())
	}
	t, err := s.svc.SetTaskStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) toggleTask(c *fiber.Ctx) error {
	t, err := s.svc.ToggleTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.svc.DeleteTask(c.UserContext(), c.Params("id"), truthy(c.Query("cascade"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// orderTasks takes the dropped sequence as ids and persists the new order.
func (s *Server) orderTasks(c *fiber.Ctx) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := parse(c, &req); err != nil {
		return err
	}
	if len(req.IDs) == 0 {
		return badRequest("ids is required")
	}
	v, err := s.svc.Tasks(c.UserContext(), "")
	if err != nil {
		return err
	}
	all := append(append(append([]model.Task{}, v.Active...), v.Snoozed...), v.Finished...)
	byID := make(map[string]model.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	dropped := make([]model.Task, 0, len(req.IDs))
	seen := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			return badRequest("duplicate task " + id)
		}
		seen[id] = true
		t, ok := byID[id]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown task "+id)
		}
		dropped = append(dropped, t)
	}
	local, err := s.svc.ReorderTasks(c.UserContext(), all, dropped)
	if err != nil {
		return err
	}
	ordering.Sort(local)
	return c.JSON(local)
}

type routineRequest struct {
	Title     string            `json:"title"`
	Schedule  model.Schedule    `json:"schedule"`
	Days      []int             `json:"days"`
	MonthDay  int               `json:"monthDay"`
	Time      string            `json:"time"`
	Type      model.RoutineType `json:"type"`
	AccountID string            `json:"accountId"`
	IsShared  bool              `json:"isShared"`
}

func (s *Server) listRoutines(c *fiber.Ctx) error {
	routines, err := s.svc.Routines(c.UserContext())
	if err != nil {
		return err
	}
	if routines == nil {
		routines = []model.Routine{}
	}
	return c.JSON(routines)
}

func (s *Server) createRoutine(c *fiber.Ctx) error {
	var req routineRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	r, err := s.svc.CreateRoutine(c.UserContext(), app.RoutineDraft{
		Title:     req.Title,
		Schedule:  req.Schedule,
		Days:      req.Days,
		MonthDay:  req.MonthDay,
		Time:      req.Time,
		Type:      req.Type,
		AccountID: req.AccountID,
		IsShared:  req.IsShared,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// toggleRoutine flips today's completion, or the completion of the date
// given as ?date=YYYY-MM-DD.
func (s *Server) toggleRoutine(c *fiber.Ctx) error {
	var date time.Time
	if v := c.Query("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return badRequest("date must be YYYY-MM-DD")
		}
		date = d.Add(12 * time.Hour)
	}
	done, err := s.svc.ToggleRoutine(c.UserContext(), c.Params("id"), date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"completed": done})
}

func (s *Server) deleteRoutine(c *fiber.Ctx) error {
	if err := s.svc.DeleteRoutine(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type meetingRequest struct {
	Title     string             `json:"title"`
	StartTime time.Time          `json:"startTime"`
	AccountID string             `json:"accountId"`
	Notes     model.MeetingNotes `json:"notes"`
	Checklist string             `json:"checklist"`
}

func (s *Server) listMeetings(c *fiber.Ctx) error {
	meetings, err := s.svc.Meetings(c.UserContext())
	if err != nil {
		return err
	}
	if meetings == nil {
		meetings = []model.Meeting{}
	}
	return c.JSON(meetings)
}

func (s *Server) createMeeting(c *fiber.Ctx) error {
	var req meetingRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	m, err := s.svc.CreateMeeting(c.UserContext(), app.MeetingDraft{
		Title:     req.Title,
		Start:     req.StartTime,
		AccountID: req.AccountID,
		Notes:     req.Notes,
		Checklist: req.Checklist,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (s *Server) toggleMeeting(c *fiber.Ctx) error {
	m, err := s.svc.ToggleMeeting(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (s *Server) toggleMeetingItem(c *fiber.Ctx) error {
	m, err := s.svc.ToggleMeetingItem(c.UserContext(), c.Params("id"), c.Params("item"))
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (s *Server) deleteMeeting(c *fiber.Ctx) error {
	if err := s.svc.DeleteMeeting(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listAccounts(c *fiber.Ctx) error {
	accounts, err := s.svc.Accounts(c.UserContext(), truthy(c.Query("all")))
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	return c.JSON(accounts)
}

func (s *Server) createAccount(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := parse(c, &req); err != nil {
		return err
	}
	if _, err := model.ResolveColor(req.Color); err != nil {
		return badRequest(err.Error())
	}
	a, err := s.svc.CreateAccount(c.UserContext(), req.Name, req.Description, req.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (s *Server) archiveAccount(c *fiber.Ctx) error {
	archived := true
	if v := c.Query("archived"); v != "" {
		archived = truthy(v)
	}
	a, err := s.svc.ArchiveAccount(c.UserContext(), c.Params("id"), archived)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (s *Server) deleteAccount(c *fiber.Ctx) error {
	if err := s.svc.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listNotes(c *fiber.Ctx) error {
	notes, err := s.svc.Notes(c.UserContext(), c.Query("query"))
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return c.JSON(notes)
}

func (s *Server) createNote(c *fiber.Ctx) error {
	var req struct {
		Title     string         `json:"title"`
		Content   string         `json:"content"`
		Type      model.NoteType `json:"type"`
		AccountID string         `json:"accountId"`
		Pinned    bool           `json:"isPinned"`
	}
	if err := parse(c, &req); err != nil {
		return err
	}
	n, err := s.svc.CreateNote(c.UserContext(), app.NoteDraft{
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		AccountID: req.AccountID,
		Pinned:    req.Pinned,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (s *Server) getNote(c *fiber.Ctx) error {
	n, err := s.svc.Note(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (s *Server) pinNote(c *fiber.Ctx) error {
	pinned := true
	if v := c.Query("pinned"); v != "" {
		pinned = truthy(v)
	}
	n, err := s.svc.PinNote(c.UserContext(), c.Params("id"), pinned)
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (s *Server) toggleNoteItem(c *fiber.Ctx) error {
	n, err := s.svc.ToggleNoteItem(c.UserContext(), c.Params("id"), c.Params("item"))
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (s *Server) deleteNote(c *fiber.Ctx) error {
	if err := s.svc.DeleteNote(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
