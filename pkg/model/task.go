package model

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusNext      TaskStatus = "next"
	StatusWaiting   TaskStatus = "waiting"
	StatusBlocked   TaskStatus = "blocked"
	StatusScheduled TaskStatus = "scheduled"
	StatusFYI       TaskStatus = "fyi"
	StatusDone      TaskStatus = "done"
)

// Statuses lists every task status in display order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusNext, StatusWaiting, StatusBlocked, StatusScheduled, StatusFYI, StatusDone}
}

func (s TaskStatus) Valid() bool {
	for _, v := range Statuses() {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts a status name, case-sensitive as stored.
func ParseStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("model: unknown task status %q", s)
	}
	return st, nil
}

const (
	ActionCreated       = "created"
	actionStatusChanged = "status_changed_to_"
)

// StatusAction is the history action recorded when a task moves to s.
func StatusAction(s TaskStatus) string {
	return actionStatusChanged + string(s)
}

// ReferenceType tags what a task reference points at.
type ReferenceType string

const (
	ReferenceEmail   ReferenceType = "email"
	ReferenceLink    ReferenceType = "link"
	ReferenceMeeting ReferenceType = "meeting"
)

type Reference struct {
	Type  ReferenceType `json:"type" firestore:"type" validate:"oneof=email link meeting"`
	Label string        `json:"label" firestore:"label" validate:"required"`
	URL   string        `json:"url,omitempty" firestore:"url,omitempty"`
}

// HistoryRecord is one append-only entry of a task's history.
type HistoryRecord struct {
	Action    string    `json:"action" firestore:"action"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
	UserID    string    `json:"userId" firestore:"userId"`
}

type Task struct {
	ID           string          `json:"id" firestore:"-"`
	OwnerID      string          `json:"ownerId" firestore:"ownerId"`
	AccountID    string          `json:"accountId,omitempty" firestore:"accountId"`
	MeetingID    string          `json:"meetingId,omitempty" firestore:"meetingId"`
	RoutineID    string          `json:"routineId,omitempty" firestore:"routineId"`
	Title        string          `json:"title" firestore:"title" validate:"required,max=200"`
	Description  string          `json:"description" firestore:"description" validate:"max=20000"`
	Status       TaskStatus      `json:"status" firestore:"status" validate:"required,taskstatus"`
	Deadline     *time.Time      `json:"deadline,omitempty" firestore:"deadline"`
	Dependencies []string        `json:"dependencies" firestore:"dependencies"`
	References   []Reference     `json:"references" firestore:"references" validate:"dive"`
	History      []HistoryRecord `json:"history" firestore:"history"`
	Order        *int            `json:"order,omitempty" firestore:"order"`
	CreatedAt    time.Time       `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" firestore:"updatedAt"`
}

var ErrSelfDependency = errors.New("model: task depends on itself")

// NewTask returns a task in its initial state with a seeded history.
func NewTask(owner, title string, now time.Time) *Task {
	t := &Task{
		OwnerID:      owner,
		Title:        title,
		Status:       StatusNext,
		Dependencies: []string{},
		References:   []Reference{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	t.AppendHistory(ActionCreated, now, owner)
	return t
}

// Done reports whether the task is complete.
func (t *Task) Done() bool {
	return t.Status == StatusDone
}

// AppendHistory adds a record to the end of the history. Existing records
// are never rewritten.
func (t *Task) AppendHistory(action string, at time.Time, actor string) {
	t.History = append(t.History, HistoryRecord{Action: action, Timestamp: at, UserID: actor})
}

// SetStatus moves the task to s and records the change.
func (t *Task) SetStatus(s TaskStatus, at time.Time, actor string) {
	t.Status = s
	t.UpdatedAt = at
	t.AppendHistory(StatusAction(s), at, actor)
}

// DependsOn reports whether id is one of the task's dependencies.
func (t *Task) DependsOn(id string) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Validate checks struct tags and the no-self-dependency rule.
func (t *Task) Validate() error {
	if err := Validate(t); err != nil {
		return err
	}
	if t.ID != "" && t.DependsOn(t.ID) {
		return ErrSelfDependency
	}
	return nil
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	out := t
	out.Dependencies = append([]string(nil), t.Dependencies...)
	out.References = append([]Reference(nil), t.References...)
	out.History = append([]HistoryRecord(nil), t.History...)
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	if t.Order != nil {
		o := *t.Order
		out.Order = &o
	}
	return out
}

// OrderUpdate is one manual sort position written by a reorder.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
