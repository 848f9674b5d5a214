package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openleave/lms-backend-go/internal/domain/session"
	"github.com/openleave/lms-backend-go/internal/pkg/kvstore"
)

// Store persists the active identity under a single storage key and fans
// out login/logout notifications to subscribers.
type Store struct {
	mu          sync.RWMutex
	kv          kvstore.Store
	key         string
	subscribers map[int]session.Observer
	nextID      int
}

func NewStore(kv kvstore.Store, key string) *Store {
	return &Store{
		kv:          kv,
		key:         key,
		subscribers: make(map[int]session.Observer),
	}
}

func (s *Store) Login(identity session.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode session identity: %w", err)
	}

	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.notify(&identity)
	return nil
}

func (s *Store) Logout() error {
	if err := s.kv.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.notify(nil)
	return nil
}

// Current returns the active identity, or nil when no session is stored.
// A malformed blob is treated as no session, never as a fatal error.
func (s *Store) Current() *session.Identity {
	data, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			slog.Warn("failed to read session", "error", err)
		}
		return nil
	}

	var identity session.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		slog.Warn("discarding malformed session blob", "error", err)
		return nil
	}
	if identity.Username == "" {
		return nil
	}
	if identity.Role != session.RoleAdmin {
		identity.Role = session.RoleUser
	}

	return &identity
}

// Subscribe registers an observer and returns its deregistration handle.
func (s *Store) Subscribe(observer session.Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// notify invokes every subscriber synchronously. A panicking observer must
// not prevent the others from being notified.
func (s *Store) notify(identity *session.Identity) {
	s.mu.RLock()
	observers := make([]session.Observer, 0, len(s.subscribers))
	for _, observer := range s.subscribers {
		observers = append(observers, observer)
	}
	s.mu.RUnlock()

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("session observer panicked", "panic", r)
				}
			}()
			observer(identity)
		}()
	}
}
