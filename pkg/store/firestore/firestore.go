// Package firestore is the hosted store backend. Documents live in one
// top-level Cloud Firestore collection per kind and snapshots come from
// realtime query listeners.
package firestore

import (
	"context"
	"fmt"
	"sync"

	gfs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

// Config locates the Firebase project.
type Config struct {
	ProjectID string
	// CredentialsFile is a service account key. Empty uses application
	// default credentials.
	CredentialsFile string
}

// NewApp initializes the Firebase Admin SDK.
func NewApp(ctx context.Context, cfg Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var fc *firebase.Config
	if cfg.ProjectID != "" {
		fc = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fc, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: initialize firebase app: %w", err)
	}
	return app, nil
}

// Store implements store.Store on Cloud Firestore.
type Store struct {
	client *gfs.Client

	tasks    *collection[model.Task]
	routines *collection[model.Routine]
	meetings *collection[model.Meeting]
	accounts *collection[model.Account]
	notes    *collection[model.Note]
}

var _ store.Store = (*Store)(nil)

// New opens the Firestore client of app.
func New(ctx context.Context, app *firebase.App) (*Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: open client: %w", err)
	}
	return newStore(client), nil
}

func newStore(client *gfs.Client) *Store {
	s := &Store{client: client}
	s.tasks = &collection[model.Task]{client: client, k: taskKind}
	s.routines = &collection[model.Routine]{client: client, k: routineKind}
	s.meetings = &collection[model.Meeting]{client: client, k: meetingKind}
	s.accounts = &collection[model.Account]{client: client, k: accountKind}
	s.notes = &collection[model.Note]{client: client, k: noteKind}
	return s
}

func (s *Store) Tasks() store.Collection[model.Task]       { return s.tasks }
func (s *Store) Routines() store.Collection[model.Routine] { return s.routines }
func (s *Store) Meetings() store.Collection[model.Meeting] { return s.meetings }
func (s *Store) Accounts() store.Collection[model.Account] { return s.accounts }
func (s *Store) Notes() store.Collection[model.Note]       { return s.notes }

// SetLedgerEntry updates the single field completionLog.<date>.<user>, so
// concurrent toggles from other users are never overwritten.
func (s *Store) SetLedgerEntry(ctx context.Context, routineID, dateKey, userID string, value bool) error {
	ref := s.client.Collection(string(model.KindRoutine)).Doc(routineID)
	_, err := ref.Update(ctx, []gfs.Update{{FieldPath: ledgerPath(dateKey, userID), Value: value}})
	if err != nil {
		return fmt.Errorf("firestore: set ledger entry %s: %w", routineID, translate(err))
	}
	return nil
}

func ledgerPath(dateKey, userID string) gfs.FieldPath {
	return gfs.FieldPath{"completionLog", dateKey, userID}
}

// BatchSetOrder writes every order field in one transaction. A missing task
// fails the whole batch.
func (s *Store) BatchSetOrder(ctx context.Context, updates []model.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	col := s.client.Collection(string(model.KindTask))
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		for _, u := range updates {
			if err := tx.Update(col.Doc(u.ID), []gfs.Update{{Path: "order", Value: u.Order}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("firestore: batch order: %w", translate(err))
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// translate maps gRPC status codes onto store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case codes.Canceled:
		return context.Canceled
	}
	return err
}

// kind describes one entity collection.
type kind[T any] struct {
	name     model.Kind
	setID    func(*T, string)
	owner    func(*T) string
	setOwner func(*T, string)
	byArea   bool
	sort     func([]T)
	keep     func(dst, stored *T)
}

var taskKind = kind[model.Task]{
	name:     model.KindTask,
	setID:    func(t *model.Task, id string) { t.ID = id },
	owner:    func(t *model.Task) string { return t.OwnerID },
	setOwner: func(t *model.Task, o string) { t.OwnerID = o },
	byArea:   true,
	sort:     store.SortTasks,
	keep:     store.KeepTaskOrder,
}

var routineKind = kind[model.Routine]{
	name:     model.KindRoutine,
	setID:    func(r *model.Routine, id string) { r.ID = id },
	owner:    func(r *model.Routine) string { return r.OwnerID },
	setOwner: func(r *model.Routine, o string) { r.OwnerID = o },
	sort:     store.SortRoutines,
	keep:     store.KeepLedger,
}

var meetingKind = kind[model.Meeting]{
	name:     model.KindMeeting,
	setID:    func(m *model.Meeting, id string) { m.ID = id },
	owner:    func(m *model.Meeting) string { return m.OwnerID },
	setOwner: func(m *model.Meeting, o string) { m.OwnerID = o },
	sort:     store.SortMeetings,
}

var accountKind = kind[model.Account]{
	name:     model.KindAccount,
	setID:    func(a *model.Account, id string) { a.ID = id },
	owner:    func(a *model.Account) string { return a.OwnerID },
	setOwner: func(a *model.Account, o string) { a.OwnerID = o },
	sort:     store.SortAccounts,
}

var noteKind = kind[model.Note]{
	name:     model.KindNote,
	setID:    func(n *model.Note, id string) { n.ID = id },
	owner:    func(n *model.Note) string { return n.OwnerID },
	setOwner: func(n *model.Note, o string) { n.OwnerID = o },
	byArea:   true,
	sort:     store.SortNotes,
}

type collection[T any] struct {
	client *gfs.Client
	k      kind[T]
}

func (c *collection[T]) ref() *gfs.CollectionRef {
	return c.client.Collection(string(c.k.name))
}

func (c *collection[T]) query(owner, area string) gfs.Query {
	q := c.ref().Where("ownerId", "==", owner)
	if area != "" {
		q = q.Where("accountId", "==", area)
	}
	return q
}

func (c *collection[T]) decode(docs []*gfs.DocumentSnapshot) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("firestore: decode %s/%s: %w", c.k.name, doc.Ref.ID, err)
		}
		c.k.setID(&v, doc.Ref.ID)
		out = append(out, v)
	}
	c.k.sort(out)
	return out, nil
}

func (c *collection[T]) subscribe(ctx context.Context, q gfs.Query, fn store.Listener[T]) (store.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	it := q.Snapshots(ctx)
	go func() {
		for {
			snap, err := it.Next()
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				fn(nil, fmt.Errorf("firestore: listen %s: %w", c.k.name, translate(err)))
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				fn(nil, fmt.Errorf("firestore: read %s snapshot: %w", c.k.name, translate(err)))
				continue
			}
			items, err := c.decode(docs)
			if ctx.Err() != nil {
				return
			}
			fn(items, err)
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			it.Stop()
		})
	}, nil
}

func (c *collection[T]) Subscribe(ctx context.Context, owner string, fn store.Listener[T]) (store.Unsubscribe, error) {
	return c.subscribe(ctx, c.query(owner, ""), fn)
}

func (c *collection[T]) SubscribeByArea(ctx context.Context, owner, area string, fn store.Listener[T]) (store.Unsubscribe, error) {
	if !c.k.byArea {
		return nil, fmt.Errorf("firestore: subscribe %s by area: %w", c.k.name, store.ErrUnsupported)
	}
	return c.subscribe(ctx, c.query(owner, area), fn)
}

func (c *collection[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.ref().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get %s/%s: %w", c.k.name, id, translate(err))
	}
	items, err := c.decode([]*gfs.DocumentSnapshot{doc})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (c *collection[T]) List(ctx context.Context, owner string) ([]T, error) {
	docs, err := c.query(owner, "").Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore: list %s: %w", c.k.name, translate(err))
	}
	return c.decode(docs)
}

func (c *collection[T]) Create(ctx context.Context, owner string, v *T) (string, error) {
	c.k.setOwner(v, owner)
	ref := c.ref().NewDoc()
	if _, err := ref.Create(ctx, v); err != nil {
		return "", fmt.Errorf("firestore: create %s: %w", c.k.name, translate(err))
	}
	c.k.setID(v, ref.ID)
	return ref.ID, nil
}

// Update replaces the document inside a transaction so a concurrent delete
// surfaces as store.ErrNotFound instead of resurrecting it. Fields owned by
// targeted writes are copied from the transactional read, and a targeted
// write landing meanwhile makes the transaction retry.
func (c *collection[T]) Update(ctx context.Context, id string, v *T) error {
	ref := c.ref().Doc(id)
	err := c.client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var prev T
		if err := doc.DataTo(&prev); err != nil {
			return err
		}
		if c.k.owner(v) == "" {
			c.k.setOwner(v, c.k.owner(&prev))
		}
		if c.k.keep != nil {
			c.k.keep(v, &prev)
		}
		return tx.Set(ref, v)
	})
	if err != nil {
		return fmt.Errorf("firestore: update %s/%s: %w", c.k.name, id, translate(err))
	}
	c.k.setID(v, id)
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if _, err := c.ref().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore: delete %s/%s: %w", c.k.name, id, translate(err))
	}
	return nil
}
