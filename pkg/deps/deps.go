// Package deps resolves task blocking from dependency ids.
//
// Dependencies are weak references. An id that no longer resolves to a task
// never blocks. Cycles are not detected; every member of a cycle stays
// blocked until one of them is done.
package deps

import "tableflip.dev/amal/pkg/model"

// Lookup resolves a task id to its status. ok is false for unknown ids.
type Lookup func(id string) (status model.TaskStatus, ok bool)

// StatusIndex builds a Lookup over tasks.
func StatusIndex(tasks []model.Task) Lookup {
	idx := make(map[string]model.TaskStatus, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t.Status
	}
	return func(id string) (model.TaskStatus, bool) {
		s, ok := idx[id]
		return s, ok
	}
}

// IsBlocked reports whether any dependency of t resolves to a status other
// than done.
func IsBlocked(t *model.Task, lookup Lookup) bool {
	for _, id := range t.Dependencies {
		if s, ok := lookup(id); ok && s != model.StatusDone {
			return true
		}
	}
	return false
}

// Blockers returns the dependency ids currently blocking t, in dependency order.
func Blockers(t *model.Task, lookup Lookup) []string {
	var out []string
	for _, id := range t.Dependencies {
		if s, ok := lookup(id); ok && s != model.StatusDone {
			out = append(out, id)
		}
	}
	return out
}

// Prune returns the dependency ids of t that still resolve.
func Prune(t *model.Task, lookup Lookup) []string {
	out := make([]string, 0, len(t.Dependencies))
	for _, id := range t.Dependencies {
		if _, ok := lookup(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// Dependents returns the tasks that list id as a dependency.
func Dependents(tasks []model.Task, id string) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.DependsOn(id) {
			out = append(out, t)
		}
	}
	return out
}
