package agenda

import (
	"sort"

	"tableflip.dev/amal/pkg/model"
)

// TaskViews splits tasks the way the task list shows them.
type TaskViews struct {
	Active   []model.Task `json:"active"`
	Snoozed  []model.Task `json:"snoozed"`
	Finished []model.Task `json:"finished"`
}

// SplitTasks partitions tasks into active, snoozed (waiting) and finished
// (done), keeping input order and applying query to title and description.
func SplitTasks(tasks []model.Task, query string) TaskViews {
	var v TaskViews
	for _, t := range tasks {
		if !Matches(query, t.Title, t.Description) {
			continue
		}
		switch t.Status {
		case model.StatusDone:
			v.Finished = append(v.Finished, t)
		case model.StatusWaiting:
			v.Snoozed = append(v.Snoozed, t)
		default:
			v.Active = append(v.Active, t)
		}
	}
	return v
}

// Logbook returns finished tasks, most recently updated first.
func Logbook(tasks []model.Task) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Done() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}
