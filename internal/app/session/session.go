package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"idlerpg/internal/domain/idle"
)

// Session owns one player's engine. Every read and write goes through the
// mutex so driver ticks and API calls never interleave.
type Session struct {
	mu       sync.Mutex
	playerID string
	engine   *idle.Engine
}

// New binds engine to playerID, generating an id when none is given.
func New(playerID string, engine *idle.Engine) *Session {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		playerID = uuid.NewString()
	}
	engine.State().PlayerID = playerID
	return &Session{playerID: playerID, engine: engine}
}

func (s *Session) PlayerID() string {
	return s.playerID
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *idle.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// View runs fn with exclusive access; fn must not mutate the engine.
func (s *Session) View(fn func(e *idle.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Replace installs a restored state, keeping the session's player id.
func (s *Session) Replace(st *idle.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.PlayerID = s.playerID
	s.engine.Replace(st)
}
