package model

import (
	"sort"
	"time"
)

// Schedule is the recurrence kind of a routine. Records written before
// schedules were typed carry an empty or free-form value; Kind folds those
// into ScheduleLegacy.
type Schedule string

const (
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
	ScheduleCustom  Schedule = "custom"
	ScheduleLegacy  Schedule = ""
)

// ParseSchedule maps user input onto a known schedule; unknown input is legacy.
func ParseSchedule(s string) Schedule {
	switch Schedule(s) {
	case ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleCustom:
		return Schedule(s)
	}
	return ScheduleLegacy
}

type RoutineType string

const (
	RoutineFixed    RoutineType = "fixed"
	RoutineFlexible RoutineType = "flexible"
)

// Ledger maps a local date key (YYYY-MM-DD) to per-user completion flags.
type Ledger map[string]map[string]bool

type Routine struct {
	ID            string      `json:"id" firestore:"-"`
	OwnerID       string      `json:"ownerId" firestore:"ownerId"`
	AccountID     string      `json:"accountId,omitempty" firestore:"accountId"`
	Title         string      `json:"title" firestore:"title" validate:"required,max=200"`
	Schedule      Schedule    `json:"schedule" firestore:"schedule"`
	Days          []int       `json:"days,omitempty" firestore:"days" validate:"omitempty,max=7,dive,min=0,max=6"`
	MonthDay      int         `json:"monthDay,omitempty" firestore:"monthDay" validate:"omitempty,min=1,max=31"`
	Time          string      `json:"time,omitempty" firestore:"time" validate:"omitempty,hhmm"`
	Type          RoutineType `json:"type" firestore:"type" validate:"omitempty,oneof=fixed flexible"`
	IsShared      bool        `json:"isShared" firestore:"isShared"`
	CompletionLog Ledger      `json:"completionLog" firestore:"completionLog"`
	CreatedAt     time.Time   `json:"createdAt" firestore:"createdAt"`
}

// NewRoutine returns a routine with an empty ledger.
func NewRoutine(owner, title string, schedule Schedule, now time.Time) *Routine {
	return &Routine{
		OwnerID:       owner,
		Title:         title,
		Schedule:      schedule,
		Type:          RoutineFixed,
		CompletionLog: Ledger{},
		CreatedAt:     now,
	}
}

// Kind resolves the stored schedule to its tagged variant.
func (r *Routine) Kind() Schedule {
	return ParseSchedule(string(r.Schedule))
}

// DaySet returns the distinct valid weekdays, ascending.
func (r *Routine) DaySet() []int {
	seen := make(map[int]bool, len(r.Days))
	out := make([]int, 0, len(r.Days))
	for _, d := range r.Days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// TargetDay is the day of month a monthly routine fires on.
func (r *Routine) TargetDay() int {
	if r.MonthDay == 0 {
		return 1
	}
	return r.MonthDay
}

// Clone returns a deep copy, including the ledger.
func (r Routine) Clone() Routine {
	out := r
	out.Days = append([]int(nil), r.Days...)
	if r.CompletionLog != nil {
		out.CompletionLog = make(Ledger, len(r.CompletionLog))
		for date, users := range r.CompletionLog {
			m := make(map[string]bool, len(users))
			for u, v := range users {
				m[u] = v
			}
			out.CompletionLog[date] = m
		}
	}
	return out
}
