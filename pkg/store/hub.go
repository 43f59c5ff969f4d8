package store

import (
	"context"
	"sync"

	"tableflip.dev/amal/pkg/model"
)

// hub fans change notifications out to live subscriptions. Each
// subscription owns one goroutine, so its snapshots are delivered one at a
// time and in order; notifications that arrive while a snapshot is being
// built coalesce into a single refresh.
type hub struct {
	mu     sync.Mutex
	next   int
	subs   map[model.Kind]map[int]*subscription
	closed bool
}

type subscription struct {
	dirty  chan struct{}
	cancel context.CancelFunc
}

func newHub() *hub {
	return &hub{subs: make(map[model.Kind]map[int]*subscription)}
}

// subscribe runs refresh once now and again after every notify for kind,
// until the returned Unsubscribe is called or ctx is done.
func (h *hub) subscribe(ctx context.Context, kind model.Kind, refresh func(ctx context.Context)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{dirty: make(chan struct{}, 1), cancel: cancel}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	h.next++
	id := h.next
	if h.subs[kind] == nil {
		h.subs[kind] = make(map[int]*subscription)
	}
	h.subs[kind][id] = sub
	h.mu.Unlock()

	remove := func() {
		h.mu.Lock()
		delete(h.subs[kind], id)
		h.mu.Unlock()
	}

	sub.dirty <- struct{}{}
	go func() {
		defer remove()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.dirty:
				if ctx.Err() != nil {
					return
				}
				refresh(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			remove()
		})
	}, nil
}

// notify marks every subscription on kind as stale. An empty kind marks all.
func (h *hub) notify(kind model.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k, subs := range h.subs {
		if kind != "" && k != kind {
			continue
		}
		for _, sub := range subs {
			select {
			case sub.dirty <- struct{}{}:
			default:
			}
		}
	}
}

// active counts live subscriptions.
func (h *hub) active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, subs := range h.subs {
		for _, sub := range subs {
			sub.cancel()
		}
	}
	h.subs = make(map[model.Kind]map[int]*subscription)
}
