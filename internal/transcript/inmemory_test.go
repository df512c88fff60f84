package transcript

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestStoreCreateAppendGet(t *testing.T) {
	s := NewInMemoryStore(0)
	ctx := context.Background()

	if err := s.Create(ctx, "s1", System("instructions")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Append(ctx, "s1", User("GENERATE"), Assistant("Q1")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	msgs, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs) = %d, want 3", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser || msgs[2].Role != RoleAssistant {
		t.Fatalf("unexpected role order: %+v", msgs)
	}
}

func TestStoreAppendAbsentFails(t *testing.T) {
	s := NewInMemoryStore(0)
	if err := s.Append(context.Background(), "nope", User("hi")); err != ErrNotFound {
		t.Fatalf("Append() error = %v, want ErrNotFound", err)
	}
}

func TestStoreGetAbsentFails(t *testing.T) {
	s := NewInMemoryStore(0)
	if _, err := s.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStoreCreateOverwrites(t *testing.T) {
	s := NewInMemoryStore(0)
	ctx := context.Background()

	if err := s.Create(ctx, "s1", System("first")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Append(ctx, "s1", User("old turn")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Create(ctx, "s1", System("second")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	msgs, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "second" {
		t.Fatalf("transcript after overwrite = %+v, want only the new system message", msgs)
	}
}

func TestStoreDeleteIdempotent(t *testing.T) {
	s := NewInMemoryStore(0)
	ctx := context.Background()

	if err := s.Create(ctx, "s1", System("x")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second Delete() error = %v, want nil", err)
	}
	if _, err := s.Get(ctx, "s1"); err != ErrNotFound {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewInMemoryStore(0)
	ctx := context.Background()

	if err := s.Create(ctx, "s1", System("x")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	msgs, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	msgs[0].Content = "mutated"

	again, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again[0].Content != "x" {
		t.Fatalf("stored content = %q, caller mutation leaked into store", again[0].Content)
	}
}

func TestStoreConcurrentDistinctSessions(t *testing.T) {
	s := NewInMemoryStore(0)
	ctx := context.Background()

	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		if err := s.Create(ctx, id, System("x")); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_ = s.Append(ctx, id, User("turn"))
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		msgs, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if len(msgs) != 26 {
			t.Fatalf("len(%s) = %d, want 26", id, len(msgs))
		}
	}
}

func TestJanitorEvictsIdleSessions(t *testing.T) {
	s := NewInMemoryStore(30 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Create(ctx, "s1", System("x")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var mu sync.Mutex
	var expired []string
	s.SetExpireHook(func(id string) {
		mu.Lock()
		expired = append(expired, id)
		mu.Unlock()
	})

	s.StartJanitor(ctx, 10*time.Millisecond)
	time.Sleep(90 * time.Millisecond)

	if _, err := s.Get(ctx, "s1"); err != ErrNotFound {
		t.Fatalf("Get() after idle timeout error = %v, want ErrNotFound", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(expired) != 1 || expired[0] != "s1" {
		t.Fatalf("expire hook calls = %v, want [s1]", expired)
	}
}
