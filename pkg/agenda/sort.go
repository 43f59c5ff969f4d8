package agenda

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/amal/pkg/clock"
)

// Priority orders untimed items by type; earlier types sort first.
type Priority []Type

// DefaultPriority puts routines before meetings before tasks.
var DefaultPriority = Priority{TypeRoutine, TypeMeeting, TypeTask}

// ParsePriority reads a comma separated list such as "meeting,task,routine".
// Types left out rank after the listed ones.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPriority, nil
	}
	var p Priority
	seen := map[Type]bool{}
	for _, part := range strings.Split(s, ",") {
		t := Type(strings.ToLower(strings.TrimSpace(part)))
		switch t {
		case TypeTask, TypeRoutine, TypeMeeting:
		default:
			return nil, fmt.Errorf("agenda: unknown item type %q", part)
		}
		if !seen[t] {
			seen[t] = true
			p = append(p, t)
		}
	}
	return p, nil
}

func (p Priority) rank(t Type) int {
	for i, v := range p {
		if v == t {
			return i
		}
	}
	return len(p)
}

func (p Priority) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Less orders incomplete before completed, timed before untimed (ascending),
// then untimed by type priority.
func (p Priority) Less(a, b *UnifiedItem) bool {
	if a.IsCompleted != b.IsCompleted {
		return !a.IsCompleted
	}
	switch {
	case a.Time != nil && b.Time != nil:
		return a.Time.Before(*b.Time)
	case a.Time != nil:
		return true
	case b.Time != nil:
		return false
	}
	return p.rank(a.Type) < p.rank(b.Type)
}

// Sort orders items in place. A nil priority uses DefaultPriority.
func Sort(items []UnifiedItem, p Priority) {
	if p == nil {
		p = DefaultPriority
	}
	sort.SliceStable(items, func(i, j int) bool {
		return p.Less(&items[i], &items[j])
	})
}

// Partition splits items into those that belong to today (untimed, overdue,
// or timed no later than the end of today) and those strictly after today.
func Partition(items []UnifiedItem, now time.Time) (today, upcoming []UnifiedItem) {
	end := clock.EndOfDay(now)
	for _, it := range items {
		if it.Time != nil && it.Time.After(end) {
			upcoming = append(upcoming, it)
		} else {
			today = append(today, it)
		}
	}
	return today, upcoming
}
