package model

import (
	"time"

	"tableflip.dev/amal/pkg/checklist"
)

// MeetingNotes are free-text notes taken around a meeting.
type MeetingNotes struct {
	Before string `json:"before" firestore:"before"`
	During string `json:"during" firestore:"during"`
	After  string `json:"after" firestore:"after"`
}

type Meeting struct {
	ID          string           `json:"id" firestore:"-"`
	OwnerID     string           `json:"ownerId" firestore:"ownerId"`
	AccountID   string           `json:"accountId,omitempty" firestore:"accountId"`
	Title       string           `json:"title" firestore:"title" validate:"required,max=200"`
	StartTime   time.Time        `json:"startTime" firestore:"startTime"`
	Notes       MeetingNotes     `json:"notes" firestore:"notes"`
	Checklist   []checklist.Item `json:"checklist" firestore:"checklist" validate:"dive"`
	PrepTaskIDs []string         `json:"prepTaskIds" firestore:"prepTaskIds"`
	IsCompleted bool             `json:"isCompleted" firestore:"isCompleted"`
	UpdatedAt   time.Time        `json:"updatedAt" firestore:"updatedAt"`
}

// NewMeeting returns an incomplete meeting with empty notes and checklist.
// A zero start defaults to now.
func NewMeeting(owner, title string, start, now time.Time) *Meeting {
	if start.IsZero() {
		start = now
	}
	return &Meeting{
		OwnerID:     owner,
		Title:       title,
		StartTime:   start,
		Checklist:   []checklist.Item{},
		PrepTaskIDs: []string{},
		UpdatedAt:   now,
	}
}

func (m Meeting) Clone() Meeting {
	out := m
	out.Checklist = checklist.Clone(m.Checklist)
	out.PrepTaskIDs = append([]string(nil), m.PrepTaskIDs...)
	return out
}
