package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"bijou/internal/models"
)

func newSignupStoreTest(t *testing.T) (SignupStore, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSignupStore(rdb, 15*time.Minute)
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func pendingFixture() *models.PendingSignup {
	return &models.PendingSignup{
		Profile: models.SignupProfile{
			Username: "hong",
			Email:    "hong@example.com",
			Phone:    "01012345678",
		},
		CodeHash:  "deadbeef",
		ExpiresAt: time.Now().Add(5 * time.Minute).Truncate(time.Second),
	}
}

func TestSignupStoreSaveGetClear(t *testing.T) {
	store, _, done := newSignupStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", pendingFixture()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get returned nil for saved session")
	}
	if got.Profile.Username != "hong" || got.CodeHash != "deadbeef" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after clear, got %+v", got)
	}
}

func TestSignupStoreGetAbsent(t *testing.T) {
	store, _, done := newSignupStoreTest(t)
	defer done()

	got, err := store.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected (nil, nil) for absent session, got %+v", got)
	}
}

func TestSignupStoreSaveOverwrites(t *testing.T) {
	store, _, done := newSignupStoreTest(t)
	defer done()
	ctx := context.Background()

	p := pendingFixture()
	if err := store.Save(ctx, "sess-1", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.Tries = 3
	p.Verified = true
	if err := store.Save(ctx, "sess-1", p); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tries != 3 || !got.Verified {
		t.Fatalf("overwrite lost fields: %+v", got)
	}
}

func TestSignupStoreTTL(t *testing.T) {
	store, mr, done := newSignupStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", pendingFixture()); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(16 * time.Minute)

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get after ttl: %v", err)
	}
	if got != nil {
		t.Fatalf("record should expire with redis ttl, got %+v", got)
	}
}

// WithLock сериализует конкурентные read-modify-write: 50 горутин
// инкрементируют tries, ни один инкремент не должен потеряться.
func TestSignupStoreWithLockSerializes(t *testing.T) {
	store, _, done := newSignupStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", pendingFixture()); err != nil {
		t.Fatalf("save: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.WithLock("sess-1", func() error {
				p, err := store.Get(ctx, "sess-1")
				if err != nil || p == nil {
					return err
				}
				p.Tries++
				return store.Save(ctx, "sess-1", p)
			})
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tries != workers {
		t.Fatalf("lost increments: tries=%d, want %d", got.Tries, workers)
	}
}
