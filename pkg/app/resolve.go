package app

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/amal/pkg/model"
)

// Match finds the item whose id equals ref, then the single item whose id
// starts with ref, then the single item whose name equals ref ignoring case.
func Match[T any](items []T, kind model.Kind, ref string, id, name func(*T) string) (*T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%s: empty reference", kind)
	}
	for i := range items {
		if id(&items[i]) == ref {
			return &items[i], nil
		}
	}
	var found []*T
	for i := range items {
		if strings.HasPrefix(id(&items[i]), ref) {
			found = append(found, &items[i])
		}
	}
	if len(found) == 0 && name != nil {
		for i := range items {
			if strings.EqualFold(name(&items[i]), ref) {
				found = append(found, &items[i])
			}
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: no %s matches %q", ErrNotFound, kind, ref)
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("%q matches %d %s, use a longer id", ref, len(found), kind)
}

// FindTask resolves ref to one of the user's tasks by id, unique id prefix
// or title.
func (s *Service) FindTask(ctx context.Context, ref string) (*model.Task, error) {
	v, err := s.Tasks(ctx, "")
	if err != nil {
		return nil, err
	}
	all := append(append(append([]model.Task{}, v.Active...), v.Snoozed...), v.Finished...)
	return Match(all, model.KindTask, ref,
		func(t *model.Task) string { return t.ID },
		func(t *model.Task) string { return t.Title })
}

func (s *Service) FindRoutine(ctx context.Context, ref string) (*model.Routine, error) {
	all, err := s.Routines(ctx)
	if err != nil {
		return nil, err
	}
	return Match(all, model.KindRoutine, ref,
		func(r *model.Routine) string { return r.ID },
		func(r *model.Routine) string { return r.Title })
}

func (s *Service) FindMeeting(ctx context.Context, ref string) (*model.Meeting, error) {
	all, err := s.Meetings(ctx)
	if err != nil {
		return nil, err
	}
	return Match(all, model.KindMeeting, ref,
		func(m *model.Meeting) string { return m.ID },
		func(m *model.Meeting) string { return m.Title })
}

func (s *Service) FindAccount(ctx context.Context, ref string) (*model.Account, error) {
	all, err := s.Accounts(ctx, true)
	if err != nil {
		return nil, err
	}
	return Match(all, model.KindAccount, ref,
		func(a *model.Account) string { return a.ID },
		func(a *model.Account) string { return a.Name })
}

func (s *Service) FindNote(ctx context.Context, ref string) (*model.Note, error) {
	all, err := s.Notes(ctx, "")
	if err != nil {
		return nil, err
	}
	return Match(all, model.KindNote, ref,
		func(n *model.Note) string { return n.ID },
		func(n *model.Note) string { return n.Title })
}

// AreaID resolves an optional area reference; empty stays empty.
func (s *Service) AreaID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	a, err := s.FindAccount(ctx, ref)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// TaskIDs resolves each reference to a task id.
func (s *Service) TaskIDs(ctx context.Context, refs []string) ([]string, error) {
	var ids []string
	for _, ref := range refs {
		t, err := s.FindTask(ctx, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}
