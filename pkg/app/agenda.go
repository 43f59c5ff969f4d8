package app

import (
	"context"
	"errors"

	"tableflip.dev/amal/pkg/agenda"
)

// Snapshot reads every collection the agenda is built from.
func (s *Service) Snapshot(ctx context.Context) (agenda.Input, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return agenda.Input{}, err
	}
	var in agenda.Input
	if in.Tasks, err = s.Store.Tasks().List(ctx, user); err != nil {
		return agenda.Input{}, err
	}
	if in.Routines, err = s.Store.Routines().List(ctx, user); err != nil {
		return agenda.Input{}, err
	}
	if in.Meetings, err = s.Store.Meetings().List(ctx, user); err != nil {
		return agenda.Input{}, err
	}
	if in.Accounts, err = s.Store.Accounts().List(ctx, user); err != nil {
		return agenda.Input{}, err
	}
	return in, nil
}

// Agenda builds the user's agenda as of now. With nobody signed in the
// agenda is empty rather than an error.
func (s *Service) Agenda(ctx context.Context, opts agenda.Options) (agenda.Agenda, error) {
	in, err := s.Snapshot(ctx)
	if errors.Is(err, ErrNoUser) {
		return agenda.Agenda{}, nil
	}
	if err != nil {
		return agenda.Agenda{}, err
	}
	user, _ := s.User(ctx)
	return s.Build(in, user, opts), nil
}

// Build projects in with the service clock and default priority.
func (s *Service) Build(in agenda.Input, user string, opts agenda.Options) agenda.Agenda {
	if opts.Priority == nil {
		opts.Priority = s.Priority
	}
	return agenda.Build(in, s.now(), user, opts)
}
