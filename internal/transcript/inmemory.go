package transcript

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	messages       []Message
	lastActivityAt time.Time
}

// InMemoryStore holds transcripts in process memory; thread-safe.
// Transcripts survive only for the process lifetime.
type InMemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	idleTimeout time.Duration
	onExpire    func(id string)
}

// NewInMemoryStore creates a store that evicts sessions idle for longer than
// idleTimeout once the janitor runs. An idleTimeout of zero disables eviction.
func NewInMemoryStore(idleTimeout time.Duration) *InMemoryStore {
	return &InMemoryStore{
		entries:     make(map[string]*entry),
		idleTimeout: idleTimeout,
	}
}

// SetExpireHook registers a callback invoked with the id of every session the
// janitor evicts.
func (s *InMemoryStore) SetExpireHook(hook func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

func (s *InMemoryStore) Create(_ context.Context, id string, system Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry{
		messages:       []Message{system},
		lastActivityAt: time.Now().UTC(),
	}
	return nil
}

func (s *InMemoryStore) Append(_ context.Context, id string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.messages = append(e.messages, msgs...)
	e.lastActivityAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// ActiveCount reports the number of live sessions.
func (s *InMemoryStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartJanitor periodically evicts idle sessions until ctx is cancelled.
// No-op when eviction is disabled.
func (s *InMemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireIdle()
			}
		}
	}()
}

func (s *InMemoryStore) expireIdle() {
	now := time.Now().UTC()
	var expired []string

	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.lastActivityAt) < s.idleTimeout {
			continue
		}
		delete(s.entries, id)
		expired = append(expired, id)
	}
	hook := s.onExpire
	s.mu.Unlock()

	if hook != nil {
		for _, id := range expired {
			hook(id)
		}
	}
}
