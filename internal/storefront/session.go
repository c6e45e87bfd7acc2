package storefront

import (
	"sync"
)

// Session holds the bearer token. The epoch is bumped on every login and
// logout; requests capture it up front and drop their response if it moved.
type Session struct {
	mu    sync.RWMutex
	token string
	epoch uint64
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *Session) snapshot() (string, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.epoch
}

func (s *Session) current(epoch uint64) bool {
	return s.Epoch() == epoch
}

func (s *Session) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.epoch++
}
