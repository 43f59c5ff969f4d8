package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"tableflip.dev/amal/pkg/model"
)

// backend holds raw JSON documents keyed by kind and id.
type backend interface {
	// read returns ErrNotFound when the document does not exist.
	read(kind model.Kind, id string) ([]byte, error)
	write(kind model.Kind, id string, data []byte) error
	erase(kind model.Kind, id string) error
	ids(ctx context.Context, kind model.Kind) []string
}

// watcher is implemented by backends that can observe changes made by other
// processes.
type watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// docStore implements Store on top of any backend.
type docStore struct {
	b   backend
	hub *hub

	// mu serializes read-modify-write sequences.
	mu sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	watchOnce sync.Once

	tasks    *collection[model.Task]
	routines *collection[model.Routine]
	meetings *collection[model.Meeting]
	accounts *collection[model.Account]
	notes    *collection[model.Note]
}

func newDocStore(b backend) *docStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &docStore{b: b, hub: newHub(), ctx: ctx, cancel: cancel}
	s.tasks = &collection[model.Task]{s: s, c: taskCodec}
	s.routines = &collection[model.Routine]{s: s, c: routineCodec}
	s.meetings = &collection[model.Meeting]{s: s, c: meetingCodec}
	s.accounts = &collection[model.Account]{s: s, c: accountCodec}
	s.notes = &collection[model.Note]{s: s, c: noteCodec}
	return s
}

func (s *docStore) Tasks() Collection[model.Task]       { return s.tasks }
func (s *docStore) Routines() Collection[model.Routine] { return s.routines }
func (s *docStore) Meetings() Collection[model.Meeting] { return s.meetings }
func (s *docStore) Accounts() Collection[model.Account] { return s.accounts }
func (s *docStore) Notes() Collection[model.Note]       { return s.notes }

// startWatch forwards backend change events to subscribers, once, for the
// lifetime of the store.
func (s *docStore) startWatch() {
	w, ok := s.b.(watcher)
	if !ok {
		return
	}
	s.watchOnce.Do(func() {
		events, err := w.Watch(s.ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: watch: %v\n", err)
			return
		}
		go func() {
			for ev := range events {
				switch ev.Type {
				case EventKindChanged:
					s.hub.notify(ev.Kind)
				default:
					s.hub.notify("")
				}
			}
		}()
	})
}

func (s *docStore) patch(kind model.Kind, id string, fn func(doc map[string]any)) error {
	data, err := s.b.read(kind, id)
	if err != nil {
		return err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("store: decode %s/%s: %w", kind, id, err)
	}
	fn(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", kind, id, err)
	}
	return s.b.write(kind, id, out)
}

// SetLedgerEntry writes completionLog[dateKey][userID] without touching the
// rest of the routine, so concurrent toggles by different users both land.
func (s *docStore) SetLedgerEntry(ctx context.Context, routineID, dateKey, userID string, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	err := s.patch(model.KindRoutine, routineID, func(doc map[string]any) {
		log, _ := doc["completionLog"].(map[string]any)
		if log == nil {
			log = make(map[string]any)
		}
		day, _ := log[dateKey].(map[string]any)
		if day == nil {
			day = make(map[string]any)
		}
		day[userID] = value
		log[dateKey] = day
		doc["completionLog"] = log
	})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("store: set ledger entry %s: %w", routineID, err)
	}
	s.hub.notify(model.KindRoutine)
	return nil
}

// BatchSetOrder writes every order position or none of them.
func (s *docStore) BatchSetOrder(ctx context.Context, updates []model.OrderUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if _, err := s.b.read(model.KindTask, u.ID); err != nil {
			return fmt.Errorf("store: batch order %s: %w", u.ID, err)
		}
	}
	for _, u := range updates {
		order := u.Order
		if err := s.patch(model.KindTask, u.ID, func(doc map[string]any) {
			doc["order"] = order
		}); err != nil {
			return fmt.Errorf("store: batch order %s: %w", u.ID, err)
		}
	}
	if len(updates) > 0 {
		s.hub.notify(model.KindTask)
	}
	return nil
}

func (s *docStore) Close() error {
	s.cancel()
	s.hub.close()
	return nil
}

// collection implements Collection for one kind.
type collection[T any] struct {
	s *docStore
	c codec[T]
}

func (c *collection[T]) decode(id string, data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("store: decode %s/%s: %w", c.c.kind, id, err)
	}
	c.c.setID(v, id)
	return v, nil
}

func (c *collection[T]) query(ctx context.Context, owner, area string) ([]T, error) {
	out := make([]T, 0)
	for _, id := range c.s.b.ids(ctx, c.c.kind) {
		data, err := c.s.b.read(c.c.kind, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		v, err := c.decode(id, data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			continue
		}
		if c.c.owner(v) != owner {
			continue
		}
		if area != "" && c.c.area(v) != area {
			continue
		}
		out = append(out, *v)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.c.sort(out)
	return out, nil
}

func (c *collection[T]) subscribe(ctx context.Context, owner, area string, fn Listener[T]) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.startWatch()
	return c.s.hub.subscribe(ctx, c.c.kind, func(ctx context.Context) {
		items, err := c.query(ctx, owner, area)
		if ctx.Err() != nil {
			return
		}
		fn(items, err)
	})
}

func (c *collection[T]) Subscribe(ctx context.Context, owner string, fn Listener[T]) (Unsubscribe, error) {
	return c.subscribe(ctx, owner, "", fn)
}

func (c *collection[T]) SubscribeByArea(ctx context.Context, owner, area string, fn Listener[T]) (Unsubscribe, error) {
	if c.c.area == nil {
		return nil, fmt.Errorf("store: subscribe %s by area: %w", c.c.kind, ErrUnsupported)
	}
	return c.subscribe(ctx, owner, area, fn)
}

func (c *collection[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := c.s.b.read(c.c.kind, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", c.c.kind, id, err)
	}
	return c.decode(id, data)
}

func (c *collection[T]) List(ctx context.Context, owner string) ([]T, error) {
	return c.query(ctx, owner, "")
}

func (c *collection[T]) Create(ctx context.Context, owner string, v *T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := c.c.id(v)
	if id == "" {
		id = uuid.NewString()
	}
	c.c.setID(v, id)
	c.c.setOwner(v, owner)
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("store: encode %s: %w", c.c.kind, err)
	}
	c.s.mu.Lock()
	err = c.s.b.write(c.c.kind, id, data)
	c.s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("store: create %s/%s: %w", c.c.kind, id, err)
	}
	c.s.hub.notify(c.c.kind)
	return id, nil
}

func (c *collection[T]) Update(ctx context.Context, id string, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	data, err := c.s.b.read(c.c.kind, id)
	if err != nil {
		return fmt.Errorf("store: update %s/%s: %w", c.c.kind, id, err)
	}
	prev, err := c.decode(id, data)
	if err != nil {
		return fmt.Errorf("store: update %s/%s: %w", c.c.kind, id, err)
	}
	c.c.setID(v, id)
	if c.c.owner(v) == "" {
		c.c.setOwner(v, c.c.owner(prev))
	}
	if c.c.keep != nil {
		c.c.keep(v, prev)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", c.c.kind, id, err)
	}
	if err := c.s.b.write(c.c.kind, id, out); err != nil {
		return fmt.Errorf("store: update %s/%s: %w", c.c.kind, id, err)
	}
	c.s.hub.notify(c.c.kind)
	return nil
}

// Delete removes id. Deleting a missing document is not an error.
func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.Lock()
	err := c.s.b.erase(c.c.kind, id)
	c.s.mu.Unlock()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("store: delete %s/%s: %w", c.c.kind, id, err)
	}
	c.s.hub.notify(c.c.kind)
	return nil
}
