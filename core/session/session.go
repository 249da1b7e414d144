package session

import (
	"context"
	"sync"
)

// durable storage keys
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// Session is the current bearer token and the username it was issued for.
// An empty Token means nobody is logged in.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Store holds the current Session. Every authenticated request reads it at call time.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

type memoryStore struct {
	mu   sync.RWMutex
	sess Session
}

var _ Store = (*memoryStore)(nil)

// NewMemoryStore returns a process-local Store, optionally pre-filled.
func NewMemoryStore(initial ...Session) Store {
	s := &memoryStore{}
	if len(initial) > 0 {
		s.sess = initial[0]
	}
	return s
}

func (s *memoryStore) Get(_ context.Context) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, nil
}

func (s *memoryStore) Set(_ context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{Token: token, Username: username}
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	return nil
}
