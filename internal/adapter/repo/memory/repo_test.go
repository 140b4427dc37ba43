package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/domain/idle"
)

func TestSaveRepoOptimisticVersion(t *testing.T) {
	store := NewStore()
	repo := NewSaveRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		return repo.SaveWithVersion(ctx, ports.SaveRecord{PlayerID: "p-1", Version: 1, Data: []byte("{}")}, 0)
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		return repo.SaveWithVersion(ctx, ports.SaveRecord{PlayerID: "p-1", Version: 2}, 0)
	})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := repo.GetByPlayerID(ctx, "p-1")
	if err != nil || got.Version != 1 || string(got.Data) != "{}" {
		t.Fatalf("unexpected save %+v %v", got, err)
	}
	if _, err := repo.GetByPlayerID(ctx, "nobody"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepoListsNewestFirst(t *testing.T) {
	store := NewStore()
	repo := NewEventRepo(store)
	ctx := context.Background()
	at := time.Unix(0, 0)
	_ = NewTxManager(store).RunInTx(ctx, func(ctx context.Context) error {
		return repo.Append(ctx, "p-1", []idle.LogEntry{{Seq: 1, At: at}, {Seq: 2, At: at}, {Seq: 3, At: at}})
	})

	got, err := repo.ListByPlayerID(ctx, "p-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 3 || got[1].Seq != 2 {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestEventRepoSkipsDuplicateSeq(t *testing.T) {
	store := NewStore()
	repo := NewEventRepo(store)
	ctx := context.Background()
	at := time.Unix(0, 0)
	if err := repo.Append(ctx, "p-1", []idle.LogEntry{{Seq: 1, Message: "first", At: at}, {Seq: 2, Message: "second", At: at}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, "p-1", []idle.LogEntry{{Seq: 2, Message: "again", At: at}, {Seq: 3, Message: "third", At: at}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ListByPlayerID(ctx, "p-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entry count mismatch: got=%d want=3", len(got))
	}
	if got[1].Seq != 2 || got[1].Message != "second" {
		t.Fatalf("duplicate seq must keep the stored entry, got %+v", got[1])
	}
}
