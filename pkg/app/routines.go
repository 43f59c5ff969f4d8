package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/amal/pkg/ledger"
	"tableflip.dev/amal/pkg/model"
)

// RoutineDraft holds the user-supplied fields of a new routine.
type RoutineDraft struct {
	Title     string
	Schedule  model.Schedule
	Days      []int
	MonthDay  int
	Time      string
	Type      model.RoutineType
	AccountID string
	IsShared  bool
}

func (s *Service) CreateRoutine(ctx context.Context, d RoutineDraft) (*model.Routine, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	r := model.NewRoutine(user, d.Title, d.Schedule, s.now())
	r.Days = d.Days
	r.MonthDay = d.MonthDay
	r.Time = d.Time
	r.AccountID = d.AccountID
	r.IsShared = d.IsShared
	if d.Type != "" {
		r.Type = d.Type
	}
	if err := model.Validate(r); err != nil {
		return nil, err
	}
	if _, err := s.Store.Routines().Create(ctx, user, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Routine(ctx context.Context, id string) (*model.Routine, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return owned(ctx, s.Store.Routines(), model.KindRoutine, id, user, routineOwner)
}

func (s *Service) Routines(ctx context.Context) ([]model.Routine, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return s.Store.Routines().List(ctx, user)
}

// UpdateRoutine applies fn and saves the routine. Changes fn makes to the
// completion log are ignored and the stored log is returned; use
// ToggleRoutine to change it.
func (s *Service) UpdateRoutine(ctx context.Context, id string, fn func(*model.Routine) error) (*model.Routine, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Routines(), model.KindRoutine, id, user, routineOwner, func(r *model.Routine) error {
		if err := fn(r); err != nil {
			return err
		}
		return model.Validate(r)
	})
}

func (s *Service) DeleteRoutine(ctx context.Context, id string) error {
	user, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if _, err := owned(ctx, s.Store.Routines(), model.KindRoutine, id, user, routineOwner); err != nil {
		return err
	}
	return s.Store.Routines().Delete(ctx, id)
}

// ToggleRoutine flips the signed-in user's completion of a routine on the
// local date of date and returns the new value. Only that one ledger entry is
// written.
func (s *Service) ToggleRoutine(ctx context.Context, id string, date time.Time) (bool, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return false, err
	}
	r, err := s.Store.Routines().Get(ctx, id)
	if err != nil {
		return false, err
	}
	if r == nil || (r.OwnerID != user && !r.IsShared) {
		return false, fmt.Errorf("%w: %s %s", ErrNotFound, model.KindRoutine, id)
	}
	if date.IsZero() {
		date = s.now()
	}
	return ledger.Toggle(ctx, s.Store, r, date, user)
}
