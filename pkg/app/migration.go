package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/amal/pkg/model"
)

// ReviewCandidate is an open task that has not been touched for a while.
type ReviewCandidate struct {
	Task        model.Task `json:"task"`
	LastTouched time.Time  `json:"lastTouched"`
}

// ReviewCandidates returns open tasks last touched before cutoff, most
// recently touched first. Waiting tasks are included; they are the ones most
// likely to have been forgotten.
func (s *Service) ReviewCandidates(ctx context.Context, cutoff time.Time) ([]ReviewCandidate, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Store.Tasks().List(ctx, user)
	if err != nil {
		return nil, err
	}
	var out []ReviewCandidate
	for _, t := range tasks {
		if t.Done() {
			continue
		}
		last := lastTouchedAt(&t)
		if !last.Before(cutoff) {
			continue
		}
		out = append(out, ReviewCandidate{Task: t, LastTouched: last})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastTouched.After(out[j].LastTouched)
	})
	return out, nil
}

func lastTouchedAt(t *model.Task) time.Time {
	latest := t.CreatedAt
	if t.UpdatedAt.After(latest) {
		latest = t.UpdatedAt
	}
	for _, record := range t.History {
		if record.Timestamp.After(latest) {
			latest = record.Timestamp
		}
	}
	return latest
}

// UpgradeResult counts documents rewritten by Upgrade.
type UpgradeResult struct {
	Tasks int `json:"tasks"`
	Notes int `json:"notes"`
}

// Upgrade rewrites legacy documents of the signed-in user into the current
// shape: tasks get a valid status and a seeded history, and checklist notes
// stored as markdown get structured items. With dryRun nothing is written.
func (s *Service) Upgrade(ctx context.Context, dryRun bool) (UpgradeResult, error) {
	var res UpgradeResult
	user, err := s.ready(ctx)
	if err != nil {
		return res, err
	}

	tasks, err := s.Store.Tasks().List(ctx, user)
	if err != nil {
		return res, err
	}
	for _, t := range tasks {
		changed := false
		if !t.Status.Valid() {
			t.Status = model.StatusNext
			changed = true
		}
		if len(t.History) == 0 {
			t.AppendHistory(model.ActionCreated, t.CreatedAt, t.OwnerID)
			changed = true
		}
		if !changed {
			continue
		}
		res.Tasks++
		if dryRun {
			continue
		}
		if err := s.Store.Tasks().Update(ctx, t.ID, &t); err != nil {
			return res, err
		}
	}

	notes, err := s.Store.Notes().List(ctx, user)
	if err != nil {
		return res, err
	}
	for _, n := range notes {
		if !n.Upgrade() {
			continue
		}
		res.Notes++
		if dryRun {
			continue
		}
		if err := s.Store.Notes().Update(ctx, n.ID, &n); err != nil {
			return res, err
		}
	}
	return res, nil
}
