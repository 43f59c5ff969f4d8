// Package model defines the stored entities: tasks, routines, meetings,
// areas (accounts) and notes.
//
// Every entity carries an owner id. References between entities (area ids,
// task dependencies, routine origin) are weak: they are plain ids that may
// no longer resolve, and consumers treat a miss as "no reference".
package model

// Kind names an entity collection.
type Kind string

const (
	KindTask    Kind = "tasks"
	KindRoutine Kind = "routines"
	KindMeeting Kind = "meetings"
	KindAccount Kind = "accounts"
	KindNote    Kind = "notes"
)

// Kinds lists every collection.
func Kinds() []Kind {
	return []Kind{KindTask, KindRoutine, KindMeeting, KindAccount, KindNote}
}
