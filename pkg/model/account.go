package model

import (
	"fmt"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountArchived AccountStatus = "archived"
)

// Account is an area: a grouping tag for tasks, routines, meetings and notes.
type Account struct {
	ID          string        `json:"id" firestore:"-"`
	OwnerID     string        `json:"ownerId" firestore:"ownerId"`
	Name        string        `json:"name" firestore:"name" validate:"required,max=200"`
	Description string        `json:"description" firestore:"description"`
	Color       string        `json:"color,omitempty" firestore:"color" validate:"omitempty,hexcolor"`
	Status      AccountStatus `json:"status" firestore:"status" validate:"omitempty,oneof=active archived"`
	CreatedAt   time.Time     `json:"createdAt" firestore:"createdAt"`
}

func NewAccount(owner, name string, now time.Time) *Account {
	return &Account{
		OwnerID:   owner,
		Name:      name,
		Status:    AccountActive,
		CreatedAt: now,
	}
}

func (a *Account) Archived() bool {
	return a.Status == AccountArchived
}

// DefaultAccountColor is used when an area has no colour of its own.
const DefaultAccountColor = "#2d3436"

type PresetColor struct {
	Name  string
	Value string
}

// PresetColors is the palette offered when creating an area.
var PresetColors = []PresetColor{
	{"Graphite", "#2d3436"},
	{"Slate", "#636e72"},
	{"Sage", "#8a9a5b"},
	{"Olive", "#556b2f"},
	{"Green", "#27ae60"},
	{"Teal", "#16a085"},
	{"Ocean", "#2980b9"},
	{"Indigo", "#4b6584"},
	{"Midnight", "#2c3e50"},
	{"Lavender", "#8e44ad"},
	{"Berry", "#b33939"},
	{"Rust", "#cd6e57"},
	{"Coral", "#e17055"},
	{"Gold", "#e1b12c"},
	{"Sand", "#d1b894"},
	{"Coffee", "#6d4c41"},
}

// ResolveColor accepts a preset name or a hex value and returns the
// normalised lower-case hex form.
func ResolveColor(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	for _, p := range PresetColors {
		if strings.EqualFold(p.Name, v) {
			return p.Value, nil
		}
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return "", fmt.Errorf("model: invalid colour %q: %w", v, err)
	}
	return c.Hex(), nil
}

// ParseColor returns the colour value for a stored hex string, falling back
// to DefaultAccountColor when hex is empty or malformed.
func ParseColor(hex string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(DefaultAccountColor)
	return c
}
