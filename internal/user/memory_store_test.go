package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rec, err := store.Create(ctx, Record{Provider: "github", OAuthID: "42", Name: "Ada", Created: created})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected Create to assign an ID")
	}

	byAccount, err := store.FindByOAuthID(ctx, "github", "42")
	if err != nil {
		t.Fatalf("FindByOAuthID() error = %v", err)
	}
	if byAccount.ID != rec.ID {
		t.Fatalf("FindByOAuthID().ID = %q, want %q", byAccount.ID, rec.ID)
	}

	byID, err := store.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if byID.OAuthID != "42" || byID.Name != "Ada" || !byID.Created.Equal(created) {
		t.Fatalf("FindByID() = %+v, want oauth id 42, name Ada, created %v", byID, created)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.FindByOAuthID(ctx, "github", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByOAuthID() error = %v, want ErrNotFound", err)
	}
	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Create(ctx, Record{Provider: "github", OAuthID: "42"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, Record{Provider: "github", OAuthID: "42"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Create() error = %v, want ErrConflict", err)
	}

	// Same raw id under a different provider is a different account.
	if _, err := store.Create(ctx, Record{Provider: "facebook", OAuthID: "42"}); err != nil {
		t.Fatalf("Create() for other provider error = %v", err)
	}
	if got := store.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Create(ctx, Record{Provider: "github", OAuthID: "race"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successful creates = %d, want 1", successes)
	}
}
