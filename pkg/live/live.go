// Package live keeps an agenda current. A View subscribes to every
// collection of the signed-in user, recomputes the agenda whenever any of
// them delivers a snapshot, and recomputes again when the day rolls over.
package live

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/ordering"
	"tableflip.dev/amal/pkg/store"
)

// Midnight is the default refresh schedule, in cron format with seconds.
const Midnight = "0 0 0 * * *"

// View is a live agenda for one user.
type View struct {
	Service *app.Service
	Options agenda.Options
	// OnChange receives every recomputed agenda. It is called from
	// subscription goroutines, one call at a time.
	OnChange func(agenda.Agenda)
	Logger   *log.Logger
	// Schedule re-evaluates the agenda without a data change so that
	// day-relative badges stay correct. Empty uses Midnight.
	Schedule string

	mu       sync.Mutex
	emit     sync.Mutex
	ctx      context.Context
	user     string
	held     bool // a task snapshot arrived during a reorder write
	in       agenda.Input
	notes    []model.Note
	have     map[model.Kind]bool
	current  agenda.Agenda
	unsubs   []store.Unsubscribe
	cron     *cron.Cron
	started  bool
	closed   bool
	lastErrs map[model.Kind]error
}

func (v *View) logf(format string, args ...any) {
	if v.Logger != nil {
		v.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Start subscribes to the signed-in user's collections. With nobody signed
// in the view is an empty, loaded agenda and nothing is subscribed.
func (v *View) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return fmt.Errorf("live: view already started")
	}
	v.started = true
	v.have = make(map[model.Kind]bool)
	v.lastErrs = make(map[model.Kind]error)
	v.mu.Unlock()

	user, err := v.Service.User(ctx)
	if err != nil {
		v.mu.Lock()
		for _, k := range model.Kinds() {
			v.have[k] = true
		}
		v.mu.Unlock()
		v.recompute()
		return nil
	}
	v.mu.Lock()
	v.user = user
	v.ctx = ctx
	v.unsubs = append(v.unsubs, store.Unsubscribe(v.Service.Ordering().OnIdle(v.catchUp)))
	v.mu.Unlock()

	st := v.Service.Store
	subscribe := []func() (store.Unsubscribe, error){
		func() (store.Unsubscribe, error) {
			return st.Tasks().Subscribe(ctx, user, func(items []model.Task, err error) {
				if err == nil && !v.Service.Ordering().Accept() {
					v.mu.Lock()
					v.held = true
					v.mu.Unlock()
					return
				}
				v.apply(model.KindTask, err, func() { v.in.Tasks = items })
			})
		},
		func() (store.Unsubscribe, error) {
			return st.Routines().Subscribe(ctx, user, func(items []model.Routine, err error) {
				v.apply(model.KindRoutine, err, func() { v.in.Routines = items })
			})
		},
		func() (store.Unsubscribe, error) {
			return st.Meetings().Subscribe(ctx, user, func(items []model.Meeting, err error) {
				v.apply(model.KindMeeting, err, func() { v.in.Meetings = items })
			})
		},
		func() (store.Unsubscribe, error) {
			return st.Accounts().Subscribe(ctx, user, func(items []model.Account, err error) {
				v.apply(model.KindAccount, err, func() { v.in.Accounts = items })
			})
		},
		func() (store.Unsubscribe, error) {
			return st.Notes().Subscribe(ctx, user, func(items []model.Note, err error) {
				v.apply(model.KindNote, err, func() { v.notes = items })
			})
		},
	}
	for _, sub := range subscribe {
		unsub, err := sub()
		if err != nil {
			v.Close()
			return fmt.Errorf("live: subscribe: %w", err)
		}
		v.mu.Lock()
		v.unsubs = append(v.unsubs, unsub)
		v.mu.Unlock()
	}

	schedule := v.Schedule
	if schedule == "" {
		schedule = Midnight
	}
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(schedule, v.recompute); err != nil {
		v.Close()
		return fmt.Errorf("live: schedule refresh: %w", err)
	}
	c.Start()
	v.mu.Lock()
	v.cron = c
	v.mu.Unlock()
	return nil
}

// apply records a snapshot (or the error that replaced it) for kind. An
// error keeps the previous snapshot, and a kind that has never delivered
// stays loading.
func (v *View) apply(kind model.Kind, err error, set func()) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.lastErrs[kind] = err
		v.mu.Unlock()
		v.logf("live: %s: %v", kind, err)
		return
	}
	delete(v.lastErrs, kind)
	set()
	v.have[kind] = true
	v.mu.Unlock()
	v.recompute()
}

// catchUp reloads tasks once no reorder is in flight, if a snapshot was
// held back meanwhile. The listener may not fire again on its own.
func (v *View) catchUp() {
	v.mu.Lock()
	held, ctx, user := v.held, v.ctx, v.user
	v.held = false
	closed := v.closed
	v.mu.Unlock()
	if !held || closed || ctx.Err() != nil {
		return
	}
	items, err := v.Service.Store.Tasks().List(ctx, user)
	v.apply(model.KindTask, err, func() { v.in.Tasks = items })
}

func (v *View) recompute() {
	v.emit.Lock()
	defer v.emit.Unlock()

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	a := agenda.Agenda{}
	if v.user != "" {
		a = v.Service.Build(v.in, v.user, v.Options)
	}
	v.current = a
	fn := v.OnChange
	v.mu.Unlock()

	if fn != nil {
		fn(a)
	}
}

// Refresh recomputes the agenda from the snapshots already held.
func (v *View) Refresh() {
	v.recompute()
}

// Loading reports whether any collection has yet to deliver its first
// snapshot.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, k := range model.Kinds() {
		if !v.have[k] {
			return true
		}
	}
	return false
}

// Err returns the most recent subscription error, if any collection is
// currently failing.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, k := range model.Kinds() {
		if err := v.lastErrs[k]; err != nil {
			return err
		}
	}
	return nil
}

// Agenda returns the last computed agenda.
func (v *View) Agenda() agenda.Agenda {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Tasks returns the local task list in manual order.
func (v *View) Tasks() []model.Task {
	v.mu.Lock()
	out := append([]model.Task(nil), v.in.Tasks...)
	v.mu.Unlock()
	ordering.Sort(out)
	return out
}

// Notes returns the latest note snapshot.
func (v *View) Notes() []model.Note {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Note(nil), v.notes...)
}

// Reorder applies a dropped task sequence locally, recomputes, and persists
// it. Task snapshots are held back until the write is acknowledged, so the
// list does not snap back while it is in flight, and the latest tasks are
// reloaded afterwards if any arrived.
func (v *View) Reorder(ctx context.Context, dropped []model.Task) error {
	v.mu.Lock()
	all := append([]model.Task(nil), v.in.Tasks...)
	v.mu.Unlock()

	local, updates := ordering.Apply(all, dropped)
	eng := v.Service.Ordering()
	tok := eng.Begin()
	v.mu.Lock()
	v.in.Tasks = local
	v.mu.Unlock()
	v.recompute()
	return eng.Commit(ctx, tok, updates)
}

// Close releases every subscription and stops the refresh schedule. It is
// safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	unsubs := v.unsubs
	v.unsubs = nil
	c := v.cron
	v.cron = nil
	v.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if c != nil {
		<-c.Stop().Done()
	}
}
