// Command demo seeds the configured store with a small sample day.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
)

func main() {
	ctx := context.Background()
	logger := log.New(os.Stderr, "demo: ", log.LstdFlags)
	svc, err := app.Open(ctx, nil, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer svc.Store.Close()

	if err := seed(ctx, svc); err != nil {
		logger.Fatal(err)
	}
}

func seed(ctx context.Context, svc *app.Service) error {
	now := svc.Now()
	at := func(days, hour, min int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+days, hour, min, 0, 0, time.Local)
	}

	work, err := svc.CreateAccount(ctx, "Work", "the day job", "ocean")
	if err != nil {
		return err
	}
	home, err := svc.CreateAccount(ctx, "Home", "", "green")
	if err != nil {
		return err
	}

	routines := []app.RoutineDraft{
		{Title: "Stretch", Schedule: model.ScheduleDaily, Time: "07:30", AccountID: home.ID},
		{Title: "Gym", Schedule: model.ScheduleWeekly, Days: []int{1, 3, 5}, AccountID: home.ID},
		{Title: "Pay rent", Schedule: model.ScheduleMonthly, MonthDay: 1, AccountID: home.ID, IsShared: true},
		{Title: "Inbox zero", Schedule: model.ScheduleCustom, Days: []int{1, 2, 3, 4, 5}, Type: model.RoutineFlexible, AccountID: work.ID},
	}
	for _, r := range routines {
		if _, err := svc.CreateRoutine(ctx, r); err != nil {
			return err
		}
	}

	standup, err := svc.CreateMeeting(ctx, app.MeetingDraft{
		Title:     "Standup",
		Start:     at(0, 9, 30),
		AccountID: work.ID,
		Checklist: "- [x] update the board\n- [ ] mention the release\n",
	})
	if err != nil {
		return err
	}
	if _, err := svc.CreateMeeting(ctx, app.MeetingDraft{
		Title:     "Planning",
		Start:     at(2, 14, 0),
		AccountID: work.ID,
		Notes:     model.MeetingNotes{Before: "bring last sprint's numbers"},
	}); err != nil {
		return err
	}

	deadline := at(1, 17, 0)
	overdue := at(-2, 12, 0)
	draft, err := svc.CreateTask(ctx, app.TaskDraft{Title: "Draft release notes", AccountID: work.ID, Deadline: &deadline, MeetingID: standup.ID})
	if err != nil {
		return err
	}
	tasks := []app.TaskDraft{
		{Title: "Publish release", AccountID: work.ID, Dependencies: []string{draft.ID}},
		{Title: "Renew passport", AccountID: home.ID, Deadline: &overdue},
		{Title: "Buy a plant", AccountID: home.ID},
	}
	for _, t := range tasks {
		if _, err := svc.CreateTask(ctx, t); err != nil {
			return err
		}
	}

	_, err = svc.CreateNote(ctx, app.NoteDraft{
		Title:   "Groceries",
		Type:    model.NoteChecklist,
		Content: "- [ ] oat milk\n- [ ] coffee\n- [x] bread\n",
		Pinned:  true,
	})
	return err
}
