package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/deps"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/ordering"
	"tableflip.dev/amal/pkg/store"
)

// Service provides high-level operations over every entity kind. It wraps
// the store, the signed-in user and the clock so UIs, the CLI and the HTTP
// server share logic.
type Service struct {
	Store    store.Store
	Identity identity.Provider
	Clock    clock.Clock
	Logger   *log.Logger
	// Priority orders untimed agenda items. Nil uses agenda.DefaultPriority.
	Priority agenda.Priority
	// Cooldown caps how long an unacknowledged reorder holds back task
	// snapshots.
	Cooldown time.Duration

	orderOnce sync.Once
	order     *ordering.Engine
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNoUser        = errors.New("app: no signed-in user")
	ErrNotFound      = errors.New("app: not found")
)

// Now is the current instant on the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// User returns the signed-in user.
func (s *Service) User(ctx context.Context) (string, error) {
	if s.Identity == nil {
		return "", ErrNoUser
	}
	id, ok := s.Identity.Current(ctx)
	if !ok {
		return "", ErrNoUser
	}
	return id, nil
}

func (s *Service) ready(ctx context.Context) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	if s.Store == nil {
		return "", ErrNoPersistence
	}
	return s.User(ctx)
}

// Ordering returns the engine that persists manual task order.
func (s *Service) Ordering() *ordering.Engine {
	s.orderOnce.Do(func() {
		s.order = &ordering.Engine{
			Persister: s.Store,
			Logger:    s.Logger,
			Clock:     s.Clock,
			Cooldown:  s.Cooldown,
		}
	})
	return s.order
}

// owned fetches id from c and checks it belongs to user. Documents of other
// users are reported as missing.
func owned[T any](ctx context.Context, c store.Collection[T], kind model.Kind, id, user string, owner func(*T) string) (*T, error) {
	v, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil || owner(v) != user {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return v, nil
}

// edit loads id, applies fn and writes the document back. v reflects the
// stored values of fields the store keeps on update.
func edit[T any](ctx context.Context, c store.Collection[T], kind model.Kind, id, user string, owner func(*T) string, fn func(*T) error) (*T, error) {
	v, err := owned(ctx, c, kind, id, user, owner)
	if err != nil {
		return nil, err
	}
	if err := fn(v); err != nil {
		return nil, err
	}
	if err := c.Update(ctx, id, v); err != nil {
		return nil, err
	}
	return v, nil
}

func taskOwner(t *model.Task) string       { return t.OwnerID }
func routineOwner(r *model.Routine) string { return r.OwnerID }
func meetingOwner(m *model.Meeting) string { return m.OwnerID }
func accountOwner(a *model.Account) string { return a.OwnerID }
func noteOwner(n *model.Note) string       { return n.OwnerID }

// TaskDraft holds the user-supplied fields of a new task.
type TaskDraft struct {
	Title        string
	Description  string
	AccountID    string
	MeetingID    string
	RoutineID    string
	Deadline     *time.Time
	Dependencies []string
	References   []model.Reference
}

// CreateTask stores a new task in the next state.
func (s *Service) CreateTask(ctx context.Context, d TaskDraft) (*model.Task, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	t := model.NewTask(user, d.Title, s.now())
	t.Description = d.Description
	t.AccountID = d.AccountID
	t.MeetingID = d.MeetingID
	t.RoutineID = d.RoutineID
	t.Deadline = d.Deadline
	if d.Dependencies != nil {
		t.Dependencies = d.Dependencies
	}
	if d.References != nil {
		t.References = d.References
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Store.Tasks().Create(ctx, user, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Task returns one of the user's tasks.
func (s *Service) Task(ctx context.Context, id string) (*model.Task, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return owned(ctx, s.Store.Tasks(), model.KindTask, id, user, taskOwner)
}

// UpdateTask applies fn to the task and saves it. Status changes belong in
// SetTaskStatus so they are recorded in the history.
func (s *Service) UpdateTask(ctx context.Context, id string, fn func(*model.Task) error) (*model.Task, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Tasks(), model.KindTask, id, user, taskOwner, func(t *model.Task) error {
		if err := fn(t); err != nil {
			return err
		}
		t.UpdatedAt = s.now()
		return t.Validate()
	})
}

// SetTaskStatus moves the task to status and appends a history record.
func (s *Service) SetTaskStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("app: invalid status %q", status)
	}
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Tasks(), model.KindTask, id, user, taskOwner, func(t *model.Task) error {
		t.SetStatus(status, s.now(), user)
		return nil
	})
}

// ToggleTask flips a task between done and next.
func (s *Service) ToggleTask(ctx context.Context, id string) (*model.Task, error) {
	t, err := s.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	next := model.StatusDone
	if t.Done() {
		next = model.StatusNext
	}
	return s.SetTaskStatus(ctx, id, next)
}

// DeleteTask removes a task. With cascade, the id is also removed from the
// dependency lists of the user's other tasks; otherwise those references
// are left dangling and simply stop blocking.
func (s *Service) DeleteTask(ctx context.Context, id string, cascade bool) error {
	user, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if _, err := owned(ctx, s.Store.Tasks(), model.KindTask, id, user, taskOwner); err != nil {
		return err
	}
	if err := s.Store.Tasks().Delete(ctx, id); err != nil {
		return err
	}
	if !cascade {
		return nil
	}
	tasks, err := s.Store.Tasks().List(ctx, user)
	if err != nil {
		return err
	}
	lookup := deps.StatusIndex(tasks)
	for _, t := range deps.Dependents(tasks, id) {
		t := t
		t.Dependencies = deps.Prune(&t, lookup)
		t.UpdatedAt = s.now()
		if err := s.Store.Tasks().Update(ctx, t.ID, &t); err != nil {
			return fmt.Errorf("app: clean dependents of %s: %w", id, err)
		}
	}
	return nil
}

// Tasks lists the user's tasks in manual order split into active, snoozed
// and finished, filtered by query.
func (s *Service) Tasks(ctx context.Context, query string) (agenda.TaskViews, error) {
	tasks, err := s.sortedTasks(ctx)
	if err != nil {
		return agenda.TaskViews{}, err
	}
	return agenda.SplitTasks(tasks, query), nil
}

func (s *Service) sortedTasks(ctx context.Context) ([]model.Task, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Store.Tasks().List(ctx, user)
	if err != nil {
		return nil, err
	}
	ordering.Sort(tasks)
	return tasks, nil
}

// ReorderTasks applies a dropped sequence optimistically and persists it in
// one batch. The returned list reflects the drop even if the write failed.
func (s *Service) ReorderTasks(ctx context.Context, all, dropped []model.Task) ([]model.Task, error) {
	if _, err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.Ordering().Reorder(ctx, all, dropped)
}

// MoveTask moves an active task to position to (0-based) among the active
// tasks and persists the new order.
func (s *Service) MoveTask(ctx context.Context, id string, to int) ([]model.Task, error) {
	tasks, err := s.sortedTasks(ctx)
	if err != nil {
		return nil, err
	}
	active := agenda.SplitTasks(tasks, "").Active
	found := false
	for _, t := range active {
		if t.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: active task %s", ErrNotFound, id)
	}
	return s.ReorderTasks(ctx, tasks, ordering.Move(active, id, to))
}

// Logbook returns the user's finished tasks, most recent first.
func (s *Service) Logbook(ctx context.Context) ([]model.Task, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Store.Tasks().List(ctx, user)
	if err != nil {
		return nil, err
	}
	return agenda.Logbook(tasks), nil
}
