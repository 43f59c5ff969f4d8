// Package store persists entities and pushes live snapshots to subscribers.
//
// Each collection is subscribed to independently. Snapshots for one
// collection arrive in order, but nothing orders them across collections.
package store

import (
	"context"
	"errors"

	"tableflip.dev/amal/pkg/model"
)

var (
	ErrNotFound    = errors.New("store: not found")
	ErrUnsupported = errors.New("store: not supported for this collection")
	ErrClosed      = errors.New("store: closed")
)

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Listener receives the full current snapshot of a query, or the error that
// prevented producing one.
type Listener[T any] func(items []T, err error)

// Collection is one entity kind.
type Collection[T any] interface {
	// Subscribe delivers the owner's documents now and after every change.
	Subscribe(ctx context.Context, owner string, fn Listener[T]) (Unsubscribe, error)
	// SubscribeByArea narrows Subscribe to one area. Only tasks and notes
	// support it.
	SubscribeByArea(ctx context.Context, owner, area string, fn Listener[T]) (Unsubscribe, error)
	// Get returns nil, nil when id does not exist.
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, owner string) ([]T, error)
	// Create stores v under owner and returns the new id.
	Create(ctx context.Context, owner string, v *T) (string, error)
	// Update overwrites the document; the last writer wins. A task's order
	// and a routine's completion log keep their stored values, since only
	// BatchSetOrder and SetLedgerEntry write them.
	Update(ctx context.Context, id string, v *T) error
	Delete(ctx context.Context, id string) error
}

// Store is the full persistence contract.
type Store interface {
	Tasks() Collection[model.Task]
	Routines() Collection[model.Routine]
	Meetings() Collection[model.Meeting]
	Accounts() Collection[model.Account]
	Notes() Collection[model.Note]

	// SetLedgerEntry writes a single completion leaf of a routine.
	SetLedgerEntry(ctx context.Context, routineID, dateKey, userID string, value bool) error
	// BatchSetOrder writes task order positions in one batch.
	BatchSetOrder(ctx context.Context, updates []model.OrderUpdate) error

	Close() error
}
