package agenda

import (
	"fmt"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/deps"
	"tableflip.dev/amal/pkg/ledger"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/recurrence"
)

// Type tags the entity an item was built from.
type Type string

const (
	TypeTask    Type = "task"
	TypeRoutine Type = "routine"
	TypeMeeting Type = "meeting"
)

// Variant is the severity of a badge.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantWarning     Variant = "warning"
	VariantNeutral     Variant = "neutral"
)

type Badge struct {
	Text    string  `json:"text"`
	Variant Variant `json:"variant"`
}

// UnifiedItem is the render-only shape shared by tasks, routines and meetings.
// It is rebuilt from the stored entities on every change and never persisted.
type UnifiedItem struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	AccountID   string     `json:"accountId,omitempty"`
	AreaColor   string     `json:"areaColor,omitempty"`
	Blocked     bool       `json:"blocked,omitempty"`
	Badge       *Badge     `json:"badge,omitempty"`

	Task    *model.Task    `json:"task,omitempty"`
	Routine *model.Routine `json:"routine,omitempty"`
	Meeting *model.Meeting `json:"meeting,omitempty"`
}

// AreaLookup resolves an area id to its colour. ok is false for unknown ids.
type AreaLookup func(id string) (color string, ok bool)

// AreaIndex builds an AreaLookup over accounts.
func AreaIndex(accounts []model.Account) AreaLookup {
	idx := make(map[string]string, len(accounts))
	for _, a := range accounts {
		idx[a.ID] = a.Color
	}
	return func(id string) (string, bool) {
		c, ok := idx[id]
		return c, ok
	}
}

// Context carries what normalisation needs besides the entity itself.
type Context struct {
	Now      time.Time
	User     string
	Areas    AreaLookup
	Statuses deps.Lookup
}

func (c Context) color(accountID string) string {
	if accountID == "" || c.Areas == nil {
		return ""
	}
	color, _ := c.Areas(accountID)
	return color
}

// FromTask normalises a task. Its time is the deadline.
func FromTask(t *model.Task, c Context) UnifiedItem {
	item := UnifiedItem{
		ID:          t.ID,
		Type:        TypeTask,
		Title:       t.Title,
		Subtitle:    t.Description,
		IsCompleted: t.Done(),
		AccountID:   t.AccountID,
		AreaColor:   c.color(t.AccountID),
		Task:        t,
	}
	if t.Deadline != nil {
		d := *t.Deadline
		item.Time = &d
	}
	if c.Statuses != nil {
		item.Blocked = deps.IsBlocked(t, c.Statuses)
	}
	if item.IsCompleted {
		return item
	}
	if t.Deadline == nil {
		item.Badge = &Badge{Text: "No Deadline", Variant: VariantNeutral}
		return item
	}
	if t.Deadline.Before(clock.StartOfDay(c.Now)) {
		item.Badge = overdueBy(clock.DaysBetween(*t.Deadline, c.Now))
	}
	return item
}

// FromMeeting normalises a meeting. Its time is the start time.
func FromMeeting(m *model.Meeting, c Context) UnifiedItem {
	start := m.StartTime
	item := UnifiedItem{
		ID:          m.ID,
		Type:        TypeMeeting,
		Title:       m.Title,
		Subtitle:    m.Notes.Before,
		Time:        &start,
		IsCompleted: m.IsCompleted,
		AccountID:   m.AccountID,
		AreaColor:   c.color(m.AccountID),
		Meeting:     m,
	}
	if item.Subtitle == "" {
		item.Subtitle = "No notes"
	}
	if item.IsCompleted || !start.Before(c.Now) {
		return item
	}
	// Day counts start once a full day has passed, not at midnight.
	if c.Now.Sub(start) >= 24*time.Hour {
		item.Badge = overdueBy(clock.DaysBetween(start, c.Now))
	} else {
		item.Badge = &Badge{Text: "Overdue", Variant: VariantDestructive}
	}
	return item
}

// FromRoutine normalises a routine against today's ledger. Its time is
// today at the routine's time of day, when it has one.
func FromRoutine(r *model.Routine, c Context) UnifiedItem {
	item := UnifiedItem{
		ID:          r.ID,
		Type:        TypeRoutine,
		Title:       r.Title,
		Subtitle:    recurrence.Label(r),
		IsCompleted: ledger.IsCompletedOn(r, c.Now, c.User),
		AccountID:   r.AccountID,
		AreaColor:   c.color(r.AccountID),
		Routine:     r,
	}
	if at, ok := recurrence.TimeOn(r, c.Now); ok {
		item.Time = &at
	}
	if item.IsCompleted {
		return item
	}
	switch n := recurrence.DaysUntilNext(r, c.Now); {
	case n == 1:
		item.Badge = &Badge{Text: "Tomorrow", Variant: VariantNeutral}
	case n > 1:
		item.Badge = &Badge{Text: fmt.Sprintf("in %d days", n), Variant: VariantNeutral}
	}
	return item
}

func overdueBy(days int) *Badge {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return &Badge{Text: fmt.Sprintf("Overdue by %d %s", days, unit), Variant: VariantDestructive}
}
