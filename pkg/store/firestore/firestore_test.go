package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

func TestTranslate(t *testing.T) {
	if translate(nil) != nil {
		t.Fatal("expected nil")
	}
	err := translate(status.Error(codes.NotFound, "no document"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(translate(status.Error(codes.Canceled, "bye")), context.Canceled) {
		t.Fatal("expected context.Canceled")
	}
	other := status.Error(codes.PermissionDenied, "nope")
	if translate(other) != other {
		t.Fatal("expected other errors unchanged")
	}
}

func TestLedgerPathKeepsDateKeyWhole(t *testing.T) {
	p := ledgerPath("2024-05-09", "user.with.dots")
	if len(p) != 3 || p[1] != "2024-05-09" || p[2] != "user.with.dots" {
		t.Fatalf("unexpected path %v", p)
	}
}

// emulatorStore connects to a local Firestore emulator when
// FIRESTORE_EMULATOR_HOST is set.
func emulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := gfs.NewClient(context.Background(), "demo-amal")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	s := newStore(client)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmulatorLedgerAndOrder(t *testing.T) {
	s := emulatorStore(t)
	ctx := context.Background()
	owner := "test-" + time.Now().Format("150405.000000")

	r := model.NewRoutine(owner, "Walk", model.ScheduleDaily, time.Now())
	rid, err := s.Routines().Create(ctx, owner, r)
	if err != nil {
		t.Fatalf("create routine: %v", err)
	}
	if err := s.SetLedgerEntry(ctx, rid, "2024-05-09", owner, true); err != nil {
		t.Fatalf("set ledger: %v", err)
	}
	got, err := s.Routines().Get(ctx, rid)
	if err != nil || got == nil {
		t.Fatalf("get routine: %v", err)
	}
	if !got.CompletionLog["2024-05-09"][owner] {
		t.Fatalf("expected ledger entry, got %+v", got.CompletionLog)
	}

	tid, err := s.Tasks().Create(ctx, owner, model.NewTask(owner, "a", time.Now()))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	err = s.BatchSetOrder(ctx, []model.OrderUpdate{{ID: tid, Order: 0}, {ID: "missing", Order: 1}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.BatchSetOrder(ctx, []model.OrderUpdate{{ID: tid, Order: 3}}); err != nil {
		t.Fatalf("batch order: %v", err)
	}
	task, _ := s.Tasks().Get(ctx, tid)
	if task.Order == nil || *task.Order != 3 {
		t.Fatalf("expected order 3, got %v", task.Order)
	}
}
