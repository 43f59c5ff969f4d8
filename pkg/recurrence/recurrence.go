// Package recurrence decides when a routine is due.
//
// Rules apply in strict precedence:
//
//  1. monthly: due iff the day of month equals MonthDay (default 1). Short
//     months are not clamped, so MonthDay 31 skips 30-day months.
//  2. a non-empty day set: due iff the weekday is in the set.
//  3. daily or legacy (empty) schedule: always due.
//  4. weekly or custom with no days: due every day.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/model"
)

// IsDueOn reports whether r fires on the local calendar date of date.
func IsDueOn(r *model.Routine, date time.Time) bool {
	date = date.In(time.Local)
	if r.Kind() == model.ScheduleMonthly {
		return date.Day() == r.TargetDay()
	}
	if days := r.DaySet(); len(days) > 0 {
		wd := int(date.Weekday())
		for _, d := range days {
			if d == wd {
				return true
			}
		}
		return false
	}
	return true
}

// DueOn filters routines down to those due on date, keeping input order.
func DueOn(routines []model.Routine, date time.Time) []model.Routine {
	out := make([]model.Routine, 0, len(routines))
	for i := range routines {
		if IsDueOn(&routines[i], date) {
			out = append(out, routines[i])
		}
	}
	return out
}

// DaysUntilNext returns the number of calendar days from today to the next
// occurrence of r. It is 0 exactly when r is due today.
func DaysUntilNext(r *model.Routine, today time.Time) int {
	if IsDueOn(r, today) {
		return 0
	}
	today = clock.StartOfDay(today)
	if r.Kind() == model.ScheduleMonthly {
		return clock.DaysBetween(today, nextMonthDay(today, r.TargetDay()))
	}
	days := r.DaySet()
	wd := int(today.Weekday())
	for _, d := range days {
		if d > wd {
			return d - wd
		}
	}
	// IsDueOn returned false, so the day set is non-empty here.
	return 7 - wd + days[0]
}

// nextMonthDay finds the first date on or after today whose day of month is
// day, skipping months too short to contain it.
func nextMonthDay(today time.Time, day int) time.Time {
	for i := 0; i < 24; i++ {
		candidate := time.Date(today.Year(), today.Month()+time.Month(i), day, 0, 0, 0, 0, time.Local)
		if candidate.Day() != day {
			continue
		}
		if !candidate.Before(today) {
			return candidate
		}
	}
	return time.Date(today.Year(), today.Month()+1, day, 0, 0, 0, 0, time.Local)
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Label renders a human readable schedule, e.g. "Weekdays" or
// "Monthly on the 2nd".
func Label(r *model.Routine) string {
	kind := r.Kind()
	if kind == model.ScheduleMonthly {
		return fmt.Sprintf("Monthly on the %s", Ordinal(r.TargetDay()))
	}
	if days := r.DaySet(); len(days) > 0 {
		switch {
		case len(days) == 7:
			return "Daily"
		case len(days) == 5 && days[0] == 1 && days[4] == 5:
			return "Weekdays"
		case len(days) == 2 && days[0] == 0 && days[1] == 6:
			return "Weekends"
		}
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = dayNames[d]
		}
		return strings.Join(names, ", ")
	}
	switch kind {
	case model.ScheduleWeekly:
		return "Weekly"
	case model.ScheduleCustom:
		return "Custom"
	}
	return "Daily"
}

// Ordinal renders n with its English suffix: 1st, 2nd, 3rd, 11th, 21st.
func Ordinal(n int) string {
	suffix := "th"
	if mod := n % 100; mod < 11 || mod > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// TimeOn returns the instant on date's local day given by r.Time ("HH:MM").
// ok is false when the routine has no time or it does not parse.
func TimeOn(r *model.Routine, date time.Time) (t time.Time, ok bool) {
	if r.Time == "" {
		return time.Time{}, false
	}
	hm, err := time.Parse("15:04", r.Time)
	if err != nil {
		return time.Time{}, false
	}
	day := clock.StartOfDay(date)
	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, time.Local), true
}
