// Package challenge holds the client-side token slot for the bot-mitigation
// widget and the server-side Cloudflare Turnstile verifier.
package challenge

import "sync"

// Store holds the current challenge token for one client session. There is a
// single logical slot: the widget's verify callback sets it, and its load,
// error, expire and timeout callbacks all clear it. Writes are
// last-write-wins; a token's presence is necessary but not sufficient for
// submission.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates an empty token store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current token, or "" when no valid token is held.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set stores the token issued by a successful challenge verification.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear invalidates the held token. Called for widget load, error, expiry
// and timeout alike.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
