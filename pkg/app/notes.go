package app

import (
	"context"
	"fmt"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/checklist"
	"tableflip.dev/amal/pkg/model"
)

// NoteDraft holds the user-supplied fields of a new note. Content is
// markdown; for checklist notes it is parsed into items.
type NoteDraft struct {
	Title     string
	Content   string
	Type      model.NoteType
	AccountID string
	Pinned    bool
}

func (s *Service) CreateNote(ctx context.Context, d NoteDraft) (*model.Note, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	n := model.NewNote(user, d.Title, s.now())
	n.Content = d.Content
	n.AccountID = d.AccountID
	n.Pinned = d.Pinned
	if d.Type != "" {
		n.SetType(d.Type)
	}
	if err := model.Validate(n); err != nil {
		return nil, err
	}
	if _, err := s.Store.Notes().Create(ctx, user, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Note(ctx context.Context, id string) (*model.Note, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return owned(ctx, s.Store.Notes(), model.KindNote, id, user, noteOwner)
}

// Notes lists the user's notes, pinned first, filtered by query against the
// title and rendered body.
func (s *Service) Notes(ctx context.Context, query string) ([]model.Note, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.Store.Notes().List(ctx, user)
	if err != nil {
		return nil, err
	}
	out := notes[:0]
	for _, n := range notes {
		if agenda.Matches(query, n.Title, n.Markdown()) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Service) UpdateNote(ctx context.Context, id string, fn func(*model.Note) error) (*model.Note, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Notes(), model.KindNote, id, user, noteOwner, func(n *model.Note) error {
		if err := fn(n); err != nil {
			return err
		}
		n.UpdatedAt = s.now()
		return model.Validate(n)
	})
}

func (s *Service) PinNote(ctx context.Context, id string, pinned bool) (*model.Note, error) {
	return s.UpdateNote(ctx, id, func(n *model.Note) error {
		n.Pinned = pinned
		return nil
	})
}

// ConvertNote switches a note between text and checklist.
func (s *Service) ConvertNote(ctx context.Context, id string, t model.NoteType) (*model.Note, error) {
	if t != model.NoteText && t != model.NoteChecklist {
		return nil, fmt.Errorf("app: invalid note type %q", t)
	}
	return s.UpdateNote(ctx, id, func(n *model.Note) error {
		n.Upgrade()
		n.SetType(t)
		return nil
	})
}

// ToggleNoteItem flips one item of a checklist note, addressed by id or
// 1-based position.
func (s *Service) ToggleNoteItem(ctx context.Context, id, ref string) (*model.Note, error) {
	return s.UpdateNote(ctx, id, func(n *model.Note) error {
		n.Upgrade()
		if n.Type != model.NoteChecklist {
			return fmt.Errorf("app: note %s is not a checklist", id)
		}
		i := checklist.Find(n.Items, ref)
		if i < 0 {
			return fmt.Errorf("%w: checklist item %s", ErrNotFound, ref)
		}
		n.Items, _ = checklist.Toggle(n.Items, n.Items[i].ID)
		return nil
	})
}

func (s *Service) DeleteNote(ctx context.Context, id string) error {
	user, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if _, err := owned(ctx, s.Store.Notes(), model.KindNote, id, user, noteOwner); err != nil {
		return err
	}
	return s.Store.Notes().Delete(ctx, id)
}
