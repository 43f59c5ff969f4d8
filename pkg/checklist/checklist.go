// Package checklist holds the structured checklist used by notes and meetings,
// and converts it to and from markdown task lists.
package checklist

import (
	"strings"

	"github.com/google/uuid"
)

const (
	unchecked = "- [ ] "
	checked   = "- [x] "
)

// Item is one line of a checklist.
type Item struct {
	ID      string `json:"id" firestore:"id"`
	Text    string `json:"text" firestore:"text" validate:"max=2000"`
	Checked bool   `json:"checked" firestore:"checked"`
}

// New returns an unchecked item with a fresh id.
func New(text string) Item {
	return Item{ID: uuid.NewString(), Text: text}
}

// Parse reads markdown task-list lines into items. Lines that are not task
// items become unchecked items holding the line verbatim; blank lines are
// dropped.
func Parse(s string) []Item {
	if s == "" {
		return nil
	}
	var items []Item
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, unchecked):
			items = append(items, Item{ID: uuid.NewString(), Text: strings.TrimPrefix(trimmed, unchecked)})
		case strings.HasPrefix(trimmed, checked), strings.HasPrefix(trimmed, "- [X] "):
			items = append(items, Item{ID: uuid.NewString(), Text: trimmed[len(checked):], Checked: true})
		default:
			items = append(items, Item{ID: uuid.NewString(), Text: line})
		}
	}
	return items
}

// Serialize renders items as a markdown task list.
func Serialize(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it.Checked {
			lines = append(lines, checked+it.Text)
		} else {
			lines = append(lines, unchecked+it.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Text renders items as plain lines, used when a checklist is turned back
// into free text.
func Text(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Text)
	}
	return strings.Join(lines, "\n")
}

// Toggle flips the item with the given id. It reports false when no item matches.
func Toggle(items []Item, id string) ([]Item, bool) {
	out := Clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Checked = !out[i].Checked
			return out, true
		}
	}
	return out, false
}

// Add appends a new unchecked item.
func Add(items []Item, text string) []Item {
	return append(Clone(items), New(text))
}

// Remove drops the item with the given id.
func Remove(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the index of the item whose id or 1-based position matches ref.
func Find(items []Item, ref string) int {
	for i, it := range items {
		if it.ID == ref {
			return i
		}
	}
	n := 0
	for _, r := range ref {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	if n >= 1 && n <= len(items) {
		return n - 1
	}
	return -1
}

// Progress counts checked items.
func Progress(items []Item) (done, total int) {
	for _, it := range items {
		if it.Checked {
			done++
		}
	}
	return done, len(items)
}

func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
