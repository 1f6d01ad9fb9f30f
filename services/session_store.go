// services/session_store.go
package services

import (
	"sync"
	"time"

	"bounty-settlement-system/models"

	"github.com/google/uuid"
)

// SettlementSession is the hand-off from the game screen to the settlement
// screen: a snapshot of the bounty ledger and pool total frozen at the moment
// the operator hit "settle". Sessions live in memory only and expire.
type SettlementSession struct {
	Token         string                `json:"token"`
	GameID        string                `json:"game_id"`
	BountyRecords []models.BountyRecord `json:"bounty_records"`
	BountyPool    float64               `json:"bounty_pool"`
	CreatedAt     time.Time             `json:"created_at"`
	ExpiresAt     time.Time             `json:"expires_at"`
}

// SessionStore holds open settlement sessions. One session per game: opening
// a new one replaces any previous session for the same game.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*SettlementSession
	ttl      time.Duration

	now func() time.Time // swappable for tests
}

const DefaultSessionTTL = 2 * time.Hour

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*SettlementSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open snapshots the ledger into a new session and returns it.
func (s *SessionStore) Open(gameID string, records []models.BountyRecord, pool float64) *SettlementSession {
	snapshot := make([]models.BountyRecord, len(records))
	copy(snapshot, records)

	now := s.now()
	session := &SettlementSession{
		Token:         uuid.NewString(),
		GameID:        gameID,
		BountyRecords: snapshot,
		BountyPool:    pool,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, existing := range s.sessions {
		if existing.GameID == gameID {
			delete(s.sessions, token)
		}
	}
	s.sessions[session.Token] = session
	return session
}

// Get returns the session for a token. Expired sessions are treated as gone.
func (s *SessionStore) Get(token string) (*SettlementSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
