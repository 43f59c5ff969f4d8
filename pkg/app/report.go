package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/model"
)

// ReportItem is a task finished in the window, or a routine with the number
// of days it was completed in the window.
type ReportItem struct {
	Task        *model.Task    `json:"task,omitempty"`
	Routine     *model.Routine `json:"routine,omitempty"`
	Completions int            `json:"completions,omitempty"`
	CompletedAt time.Time      `json:"completedAt"`
}

// ReportSection groups finished work by area.
type ReportSection struct {
	AreaID string       `json:"areaId,omitempty"`
	Area   string       `json:"area"`
	Color  string       `json:"color,omitempty"`
	Items  []ReportItem `json:"items"`
}

// ReportResult encapsulates a finished-work report for a time window.
type ReportResult struct {
	Since    time.Time       `json:"since"`
	Until    time.Time       `json:"until"`
	Sections []ReportSection `json:"sections"`
	Total    int             `json:"total"`
}

// NoArea labels work not tagged with an existing area.
const NoArea = "No Area"

// Report returns tasks finished and routine completions between the provided
// bounds, grouped by area name.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	user, err := s.ready(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	in, err := s.Snapshot(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	areas := make(map[string]model.Account, len(in.Accounts))
	for _, a := range in.Accounts {
		areas[a.ID] = a
	}
	grouped := make(map[string]*ReportSection)
	section := func(areaID string) *ReportSection {
		a, ok := areas[areaID]
		if !ok {
			areaID = ""
		}
		sec, found := grouped[areaID]
		if !found {
			sec = &ReportSection{AreaID: areaID, Area: NoArea}
			if ok {
				sec.Area = a.Name
				sec.Color = a.Color
			}
			grouped[areaID] = sec
		}
		return sec
	}

	total := 0
	for i := range in.Tasks {
		t := &in.Tasks[i]
		if !t.Done() {
			continue
		}
		at := completedAt(t)
		if at.Before(since) || at.After(until) {
			continue
		}
		sec := section(t.AccountID)
		sec.Items = append(sec.Items, ReportItem{Task: t, CompletedAt: at})
		total++
	}
	from := clock.StartOfDay(since)
	for i := range in.Routines {
		r := &in.Routines[i]
		n, last := 0, time.Time{}
		for key, users := range r.CompletionLog {
			if !users[user] {
				continue
			}
			day, err := clock.ParseDateKey(key)
			if err != nil || day.Before(from) || day.After(until) {
				continue
			}
			n++
			if day.After(last) {
				last = day
			}
		}
		if n == 0 {
			continue
		}
		sec := section(r.AccountID)
		sec.Items = append(sec.Items, ReportItem{Routine: r, Completions: n, CompletedAt: last})
		total += n
	}

	result := ReportResult{Since: since, Until: until, Total: total}
	for _, sec := range grouped {
		sort.SliceStable(sec.Items, func(i, j int) bool {
			return sec.Items[i].CompletedAt.After(sec.Items[j].CompletedAt)
		})
		result.Sections = append(result.Sections, *sec)
	}
	sort.Slice(result.Sections, func(i, j int) bool {
		a, b := result.Sections[i], result.Sections[j]
		if (a.AreaID == "") != (b.AreaID == "") {
			return b.AreaID == ""
		}
		return a.Area < b.Area
	})
	return result, nil
}

// completedAt is the time of the last move to done, or UpdatedAt for tasks
// whose history predates status records.
func completedAt(t *model.Task) time.Time {
	done := model.StatusAction(model.StatusDone)
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Action == done {
			return t.History[i].Timestamp
		}
	}
	return t.UpdatedAt
}
