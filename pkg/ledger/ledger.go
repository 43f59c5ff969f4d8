// Package ledger reads and toggles a routine's per-date, per-user completion log.
package ledger

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/model"
)

// Writer persists a single ledger leaf without rewriting the rest of the
// routine.
type Writer interface {
	SetLedgerEntry(ctx context.Context, routineID, dateKey, userID string, value bool) error
}

// IsCompletedOn reports whether user completed r on the local date of date.
func IsCompletedOn(r *model.Routine, date time.Time, userID string) bool {
	return Get(r.CompletionLog, clock.DateKey(date), userID)
}

// Get looks up one leaf, defaulting to false.
func Get(l model.Ledger, dateKey, userID string) bool {
	users, ok := l[dateKey]
	if !ok {
		return false
	}
	return users[userID]
}

// Set writes one leaf into r's in-memory ledger.
func Set(r *model.Routine, dateKey, userID string, value bool) {
	if r.CompletionLog == nil {
		r.CompletionLog = model.Ledger{}
	}
	users := r.CompletionLog[dateKey]
	if users == nil {
		users = make(map[string]bool)
		r.CompletionLog[dateKey] = users
	}
	users[userID] = value
}

// Toggle flips user's completion of r on date, persists just that leaf, and
// mirrors the write into r. It returns the new value.
func Toggle(ctx context.Context, w Writer, r *model.Routine, date time.Time, userID string) (bool, error) {
	key := clock.DateKey(date)
	next := !Get(r.CompletionLog, key, userID)
	if err := w.SetLedgerEntry(ctx, r.ID, key, userID, next); err != nil {
		return !next, fmt.Errorf("ledger: set %s/%s: %w", key, userID, err)
	}
	Set(r, key, userID, next)
	return next, nil
}

// Streak counts consecutive completed days for user ending on date. A day
// that is not due does not break the streak.
func Streak(r *model.Routine, date time.Time, userID string, due func(*model.Routine, time.Time) bool) int {
	n := 0
	d := clock.StartOfDay(date)
	if !IsCompletedOn(r, d, userID) {
		d = d.AddDate(0, 0, -1)
	}
	for i := 0; i < 366; i++ {
		switch {
		case IsCompletedOn(r, d, userID):
			n++
		case due != nil && !due(r, d):
		default:
			return n
		}
		d = d.AddDate(0, 0, -1)
	}
	return n
}
