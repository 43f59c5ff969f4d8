package app

import (
	"context"

	"tableflip.dev/amal/pkg/model"
)

// CreateAccount stores a new active area. colour is a preset name or hex
// value; empty leaves the area uncoloured.
func (s *Service) CreateAccount(ctx context.Context, name, description, colour string) (*model.Account, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	hex, err := model.ResolveColor(colour)
	if err != nil {
		return nil, err
	}
	a := model.NewAccount(user, name, s.now())
	a.Description = description
	a.Color = hex
	if err := model.Validate(a); err != nil {
		return nil, err
	}
	if _, err := s.Store.Accounts().Create(ctx, user, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Accounts lists the user's areas, newest first. Archived areas are
// included only when all is set.
func (s *Service) Accounts(ctx context.Context, all bool) ([]model.Account, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.Store.Accounts().List(ctx, user)
	if err != nil || all {
		return accounts, err
	}
	active := accounts[:0]
	for _, a := range accounts {
		if !a.Archived() {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *Service) UpdateAccount(ctx context.Context, id string, fn func(*model.Account) error) (*model.Account, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Accounts(), model.KindAccount, id, user, accountOwner, func(a *model.Account) error {
		if err := fn(a); err != nil {
			return err
		}
		return model.Validate(a)
	})
}

// ArchiveAccount hides or restores an area.
func (s *Service) ArchiveAccount(ctx context.Context, id string, archived bool) (*model.Account, error) {
	return s.UpdateAccount(ctx, id, func(a *model.Account) error {
		a.Status = model.AccountActive
		if archived {
			a.Status = model.AccountArchived
		}
		return nil
	})
}

// DeleteAccount removes an area. Entities tagged with it keep the id and
// render with the default colour.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if _, err := owned(ctx, s.Store.Accounts(), model.KindAccount, id, user, accountOwner); err != nil {
		return err
	}
	return s.Store.Accounts().Delete(ctx, id)
}
