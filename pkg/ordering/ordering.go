// Package ordering maintains the manual sort order of tasks.
//
// A reorder assigns order = index to the dropped sequence, applies it to the
// local list immediately, and persists the positions in one batch. Until the
// store acknowledges that batch, remote snapshots must not replace local
// state, or the list would briefly snap back to the old order.
package ordering

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/model"
)

// Persister writes a batch of order positions.
type Persister interface {
	BatchSetOrder(ctx context.Context, updates []model.OrderUpdate) error
}

func orderOf(t *model.Task) int {
	if t.Order == nil {
		return math.MaxInt
	}
	return *t.Order
}

// Less orders by manual order ascending (unset last), then newest first.
func Less(a, b *model.Task) bool {
	oa, ob := orderOf(a), orderOf(b)
	if oa != ob {
		return oa < ob
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Sort orders tasks in place with Less.
func Sort(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(&tasks[i], &tasks[j])
	})
}

// Apply assigns order = index to dropped, splices those positions into a
// copy of all, and returns the re-sorted list with the updates to persist.
func Apply(all, dropped []model.Task) ([]model.Task, []model.OrderUpdate) {
	updates := make([]model.OrderUpdate, len(dropped))
	positions := make(map[string]int, len(dropped))
	for i, t := range dropped {
		updates[i] = model.OrderUpdate{ID: t.ID, Order: i}
		positions[t.ID] = i
	}
	local := make([]model.Task, len(all))
	for i, t := range all {
		if pos, ok := positions[t.ID]; ok {
			p := pos
			t.Order = &p
		}
		local[i] = t
	}
	Sort(local)
	return local, updates
}

// Move relocates the task with id to index to within tasks and returns the
// new sequence. Indexes are clamped to the list.
func Move(tasks []model.Task, id string, to int) []model.Task {
	from := -1
	for i := range tasks {
		if tasks[i].ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return tasks
	}
	if to < 0 {
		to = 0
	}
	if to >= len(tasks) {
		to = len(tasks) - 1
	}
	out := make([]model.Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	moved := tasks[from]
	out = append(out[:to], append([]model.Task{moved}, out[to:]...)...)
	return out
}

// Token identifies one in-flight order write.
type Token uint64

// Engine tracks in-flight order writes so live snapshots can be held back
// until they are acknowledged.
type Engine struct {
	Persister Persister
	Logger    *log.Logger
	Clock     clock.Clock
	// Cooldown caps how long an unacknowledged write suppresses snapshots.
	// Zero waits for the acknowledgement however long it takes.
	Cooldown time.Duration

	mu       sync.Mutex
	next     Token
	pending  map[Token]time.Time
	idle     map[int]func()
	nextIdle int
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Begin registers a write and starts suppressing snapshots.
func (e *Engine) Begin() Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		e.pending = make(map[Token]time.Time)
	}
	e.next++
	e.pending[e.next] = e.now()
	return e.next
}

// Ack ends suppression for tok. When no write is left in flight the idle
// callbacks run, in the caller's goroutine.
func (e *Engine) Ack(tok Token) {
	e.mu.Lock()
	delete(e.pending, tok)
	var fns []func()
	if len(e.pending) == 0 {
		for _, fn := range e.idle {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// OnIdle registers fn to run whenever an acknowledgement leaves no write in
// flight. Subscribers use it to catch up on snapshots they held back. The
// returned func removes fn.
func (e *Engine) OnIdle(fn func()) (remove func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idle == nil {
		e.idle = make(map[int]func())
	}
	e.nextIdle++
	id := e.nextIdle
	e.idle[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.idle, id)
		e.mu.Unlock()
	}
}

// Commit persists updates under tok and acknowledges it whatever the
// outcome. A failure is logged and returned; local state is not rolled back.
func (e *Engine) Commit(ctx context.Context, tok Token, updates []model.OrderUpdate) error {
	defer e.Ack(tok)
	if len(updates) == 0 {
		return nil
	}
	if err := e.Persister.BatchSetOrder(ctx, updates); err != nil {
		e.logf("ordering: persist order: %v", err)
		return err
	}
	return nil
}

// Reorder applies a drop locally and persists it, returning the new local
// list. The list reflects the drop even when the write fails.
func (e *Engine) Reorder(ctx context.Context, all, dropped []model.Task) ([]model.Task, error) {
	local, updates := Apply(all, dropped)
	tok := e.Begin()
	return local, e.Commit(ctx, tok, updates)
}

// Accept reports whether a remote snapshot may replace local task state.
func (e *Engine) Accept() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Cooldown > 0 {
		now := e.now()
		for tok, started := range e.pending {
			if now.Sub(started) >= e.Cooldown {
				delete(e.pending, tok)
			}
		}
	}
	return len(e.pending) == 0
}

// Pending counts unacknowledged writes.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
