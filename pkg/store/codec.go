package store

import (
	"sort"

	"tableflip.dev/amal/pkg/model"
)

// codec describes how a document store handles one entity kind.
type codec[T any] struct {
	kind     model.Kind
	id       func(*T) string
	setID    func(*T, string)
	owner    func(*T) string
	setOwner func(*T, string)
	// area is nil for kinds that cannot be filtered by area.
	area func(*T) string
	less func(a, b *T) bool
	// keep copies fields that only targeted writes may change from the
	// stored document into an update. Nil keeps nothing.
	keep func(dst, stored *T)
}

func (c codec[T]) sort(items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return c.less(&items[i], &items[j])
	})
}

var taskCodec = codec[model.Task]{
	kind:     model.KindTask,
	id:       func(t *model.Task) string { return t.ID },
	setID:    func(t *model.Task, id string) { t.ID = id },
	owner:    func(t *model.Task) string { return t.OwnerID },
	setOwner: func(t *model.Task, owner string) { t.OwnerID = owner },
	area:     func(t *model.Task) string { return t.AccountID },
	less:     func(a, b *model.Task) bool { return a.CreatedAt.After(b.CreatedAt) },
	keep:     KeepTaskOrder,
}

var routineCodec = codec[model.Routine]{
	kind:     model.KindRoutine,
	id:       func(r *model.Routine) string { return r.ID },
	setID:    func(r *model.Routine, id string) { r.ID = id },
	owner:    func(r *model.Routine) string { return r.OwnerID },
	setOwner: func(r *model.Routine, owner string) { r.OwnerID = owner },
	less:     func(a, b *model.Routine) bool { return a.Title < b.Title },
	keep:     KeepLedger,
}

var meetingCodec = codec[model.Meeting]{
	kind:     model.KindMeeting,
	id:       func(m *model.Meeting) string { return m.ID },
	setID:    func(m *model.Meeting, id string) { m.ID = id },
	owner:    func(m *model.Meeting) string { return m.OwnerID },
	setOwner: func(m *model.Meeting, owner string) { m.OwnerID = owner },
	less:     func(a, b *model.Meeting) bool { return a.StartTime.Before(b.StartTime) },
}

var accountCodec = codec[model.Account]{
	kind:     model.KindAccount,
	id:       func(a *model.Account) string { return a.ID },
	setID:    func(a *model.Account, id string) { a.ID = id },
	owner:    func(a *model.Account) string { return a.OwnerID },
	setOwner: func(a *model.Account, owner string) { a.OwnerID = owner },
	less:     func(a, b *model.Account) bool { return a.CreatedAt.After(b.CreatedAt) },
}

var noteCodec = codec[model.Note]{
	kind:     model.KindNote,
	id:       func(n *model.Note) string { return n.ID },
	setID:    func(n *model.Note, id string) { n.ID = id },
	owner:    func(n *model.Note) string { return n.OwnerID },
	setOwner: func(n *model.Note, owner string) { n.OwnerID = owner },
	area:     func(n *model.Note) string { return n.AccountID },
	less: func(a, b *model.Note) bool {
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	},
}

// SortTasks orders tasks as the store delivers them, newest first.
func SortTasks(tasks []model.Task) { taskCodec.sort(tasks) }

// SortNotes orders notes pinned first, then most recently updated.
func SortNotes(notes []model.Note) { noteCodec.sort(notes) }

// SortRoutines orders routines by title.
func SortRoutines(routines []model.Routine) { routineCodec.sort(routines) }

// SortMeetings orders meetings by start time.
func SortMeetings(meetings []model.Meeting) { meetingCodec.sort(meetings) }

// SortAccounts orders accounts newest first.
func SortAccounts(accounts []model.Account) { accountCodec.sort(accounts) }

// KeepTaskOrder carries the stored manual order into a task update. Order is
// written only by BatchSetOrder.
func KeepTaskOrder(dst, stored *model.Task) { dst.Order = stored.Order }

// KeepLedger carries the stored completion log into a routine update. The
// log is written only by SetLedgerEntry.
func KeepLedger(dst, stored *model.Routine) { dst.CompletionLog = stored.CompletionLog }
