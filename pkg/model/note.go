package model

import (
	"time"

	"tableflip.dev/amal/pkg/checklist"
)

type NoteType string

const (
	NoteText      NoteType = "text"
	NoteChecklist NoteType = "checklist"
)

const (
	MaxNoteTitle   = 200
	MaxNoteContent = 20000
)

// Note is a free-form note. Text notes keep their body in Content; checklist
// notes keep the structured Items and leave Content empty.
type Note struct {
	ID        string           `json:"id" firestore:"-"`
	OwnerID   string           `json:"ownerId" firestore:"ownerId"`
	AccountID string           `json:"accountId,omitempty" firestore:"accountId"`
	Title     string           `json:"title" firestore:"title" validate:"max=200"`
	Content   string           `json:"content" firestore:"content" validate:"max=20000"`
	Items     []checklist.Item `json:"items,omitempty" firestore:"items" validate:"dive"`
	Type      NoteType         `json:"type" firestore:"type" validate:"required,oneof=text checklist"`
	Pinned    bool             `json:"isPinned" firestore:"isPinned"`
	CreatedAt time.Time        `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" firestore:"updatedAt"`
}

func NewNote(owner, title string, now time.Time) *Note {
	return &Note{
		OwnerID:   owner,
		Title:     title,
		Type:      NoteText,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Markdown renders the note body. Checklist notes render as a task list.
func (n *Note) Markdown() string {
	if n.Type == NoteChecklist {
		return checklist.Serialize(n.Items)
	}
	return n.Content
}

// SetType converts the note between representations. Text becomes a
// checklist by parsing it as a task list; a checklist becomes text by
// rendering it as one.
func (n *Note) SetType(t NoteType) {
	if n.Type == t {
		return
	}
	switch t {
	case NoteChecklist:
		n.Items = checklist.Parse(n.Content)
		n.Content = ""
	case NoteText:
		n.Content = checklist.Serialize(n.Items)
		n.Items = nil
	}
	n.Type = t
}

// Upgrade moves checklist notes stored as markdown content onto Items.
// It reports whether anything changed.
func (n *Note) Upgrade() bool {
	if n.Type != NoteChecklist || n.Content == "" || len(n.Items) > 0 {
		return false
	}
	n.Items = checklist.Parse(n.Content)
	n.Content = ""
	return true
}

func (n Note) Clone() Note {
	out := n
	out.Items = checklist.Clone(n.Items)
	return out
}
