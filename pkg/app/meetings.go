package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/amal/pkg/checklist"
	"tableflip.dev/amal/pkg/model"
)

// MeetingDraft holds the user-supplied fields of a new meeting.
type MeetingDraft struct {
	Title     string
	Start     time.Time
	AccountID string
	Notes     model.MeetingNotes
	// Checklist is a markdown task list.
	Checklist string
}

func (s *Service) CreateMeeting(ctx context.Context, d MeetingDraft) (*model.Meeting, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	m := model.NewMeeting(user, d.Title, d.Start, s.now())
	m.AccountID = d.AccountID
	m.Notes = d.Notes
	if items := checklist.Parse(d.Checklist); items != nil {
		m.Checklist = items
	}
	if err := model.Validate(m); err != nil {
		return nil, err
	}
	if _, err := s.Store.Meetings().Create(ctx, user, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Meeting(ctx context.Context, id string) (*model.Meeting, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return owned(ctx, s.Store.Meetings(), model.KindMeeting, id, user, meetingOwner)
}

func (s *Service) Meetings(ctx context.Context) ([]model.Meeting, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return s.Store.Meetings().List(ctx, user)
}

func (s *Service) UpdateMeeting(ctx context.Context, id string, fn func(*model.Meeting) error) (*model.Meeting, error) {
	user, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	return edit(ctx, s.Store.Meetings(), model.KindMeeting, id, user, meetingOwner, func(m *model.Meeting) error {
		if err := fn(m); err != nil {
			return err
		}
		m.UpdatedAt = s.now()
		return model.Validate(m)
	})
}

// ToggleMeeting flips whether the meeting is completed.
func (s *Service) ToggleMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	return s.UpdateMeeting(ctx, id, func(m *model.Meeting) error {
		m.IsCompleted = !m.IsCompleted
		return nil
	})
}

// ToggleMeetingItem flips one checklist item, addressed by id or 1-based
// position.
func (s *Service) ToggleMeetingItem(ctx context.Context, id, ref string) (*model.Meeting, error) {
	return s.UpdateMeeting(ctx, id, func(m *model.Meeting) error {
		i := checklist.Find(m.Checklist, ref)
		if i < 0 {
			return fmt.Errorf("%w: checklist item %s", ErrNotFound, ref)
		}
		m.Checklist, _ = checklist.Toggle(m.Checklist, m.Checklist[i].ID)
		return nil
	})
}

// AddMeetingItem appends an unchecked item to the meeting checklist.
func (s *Service) AddMeetingItem(ctx context.Context, id, text string) (*model.Meeting, error) {
	return s.UpdateMeeting(ctx, id, func(m *model.Meeting) error {
		m.Checklist = checklist.Add(m.Checklist, text)
		return nil
	})
}

func (s *Service) DeleteMeeting(ctx context.Context, id string) error {
	user, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if _, err := owned(ctx, s.Store.Meetings(), model.KindMeeting, id, user, meetingOwner); err != nil {
		return err
	}
	return s.Store.Meetings().Delete(ctx, id)
}
