// Package agenda merges tasks, routines and meetings into one badge-annotated
// list split into Today and Upcoming.
//
// Build is a pure function of the stored entities, the current instant and
// the viewing user; callers recompute it on every change.
package agenda

import (
	"strings"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/deps"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/ordering"
	"tableflip.dev/amal/pkg/recurrence"
)

// Input is one consistent-enough view of the user's collections. The
// collections may be momentarily out of step with one another.
type Input struct {
	Tasks    []model.Task
	Routines []model.Routine
	Meetings []model.Meeting
	Accounts []model.Account
}

type Options struct {
	// Priority breaks ties between untimed items. Nil uses DefaultPriority.
	Priority Priority
	// Query keeps items whose title or description contains it, ignoring case.
	Query string
	// Area keeps items tagged with this area id.
	Area string
	// HideSnoozed drops tasks in the waiting state.
	HideSnoozed bool
	// Window bounds Upcoming to items within this long after today ends.
	// Zero means no bound.
	Window time.Duration
}

type Agenda struct {
	Today    []UnifiedItem `json:"today"`
	Upcoming []UnifiedItem `json:"upcoming"`
}

// Len counts items in both partitions.
func (a Agenda) Len() int {
	return len(a.Today) + len(a.Upcoming)
}

// Find returns the item with the given id from either partition.
func (a Agenda) Find(id string) (UnifiedItem, bool) {
	for _, part := range [][]UnifiedItem{a.Today, a.Upcoming} {
		for _, it := range part {
			if it.ID == id {
				return it, true
			}
		}
	}
	return UnifiedItem{}, false
}

// Build derives the agenda for user at now.
//
// Routines appear only when due today. Done tasks appear on the day they
// were last updated; completed meetings appear until their day has passed.
func Build(in Input, now time.Time, user string, opts Options) Agenda {
	c := Context{
		Now:      now,
		User:     user,
		Areas:    AreaIndex(in.Accounts),
		Statuses: deps.StatusIndex(in.Tasks),
	}
	startOfToday := clock.StartOfDay(now)

	var items []UnifiedItem
	for i := range in.Routines {
		r := &in.Routines[i]
		if !recurrence.IsDueOn(r, now) || !opts.keep(r.AccountID, r.Title, "") {
			continue
		}
		items = append(items, FromRoutine(r, c))
	}
	for i := range in.Meetings {
		m := &in.Meetings[i]
		if m.IsCompleted && m.StartTime.Before(startOfToday) {
			continue
		}
		if !opts.keep(m.AccountID, m.Title, m.Notes.Before) {
			continue
		}
		items = append(items, FromMeeting(m, c))
	}
	// Ties in Sort keep the manual task order.
	tasks := append([]model.Task(nil), in.Tasks...)
	ordering.Sort(tasks)
	for i := range tasks {
		t := &tasks[i]
		if t.Done() && t.UpdatedAt.Before(startOfToday) {
			continue
		}
		if opts.HideSnoozed && t.Status == model.StatusWaiting {
			continue
		}
		if !opts.keep(t.AccountID, t.Title, t.Description) {
			continue
		}
		items = append(items, FromTask(t, c))
	}

	today, upcoming := Partition(items, now)
	if opts.Window > 0 {
		limit := clock.EndOfDay(now).Add(opts.Window)
		kept := upcoming[:0]
		for _, it := range upcoming {
			if !it.Time.After(limit) {
				kept = append(kept, it)
			}
		}
		upcoming = kept
	}
	Sort(today, opts.Priority)
	Sort(upcoming, opts.Priority)
	return Agenda{Today: today, Upcoming: upcoming}
}

func (o Options) keep(accountID, title, description string) bool {
	if o.Area != "" && accountID != o.Area {
		return false
	}
	return Matches(o.Query, title, description)
}

// Matches reports whether query occurs in any of fields, ignoring case. An
// empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
