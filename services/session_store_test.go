package services

import (
	"testing"
	"time"

	"bounty-settlement-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreOpenAndGet(t *testing.T) {
	store := NewSessionStore(time.Hour)
	records := []models.BountyRecord{{ID: "r1", Amount: 100}}

	session := store.Open("game-1", records, 100)
	require.NotEmpty(t, session.Token)

	got, ok := store.Get(session.Token)
	require.True(t, ok)
	assert.Equal(t, "game-1", got.GameID)
	assert.Equal(t, 100.0, got.BountyPool)
	require.Len(t, got.BountyRecords, 1)

	// The session holds a snapshot: later ledger edits don't leak in.
	records[0].Amount = 999
	assert.Equal(t, 100.0, got.BountyRecords[0].Amount)
}

func TestSessionStoreReplacesSessionPerGame(t *testing.T) {
	store := NewSessionStore(time.Hour)

	first := store.Open("game-1", nil, 0)
	second := store.Open("game-1", nil, 200)

	_, ok := store.Get(first.Token)
	assert.False(t, ok, "opening a new session invalidates the old one")
	got, ok := store.Get(second.Token)
	require.True(t, ok)
	assert.Equal(t, 200.0, got.BountyPool)
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)
	current := time.Now()
	store.now = func() time.Time { return current }

	session := store.Open("game-1", nil, 0)
	_, ok := store.Get(session.Token)
	require.True(t, ok)

	current = current.Add(2 * time.Hour)
	_, ok = store.Get(session.Token)
	assert.False(t, ok, "expired session should be gone")
}

func TestSessionStoreSweep(t *testing.T) {
	store := NewSessionStore(time.Hour)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Open("game-1", nil, 0)
	store.Open("game-2", nil, 0)
	current = current.Add(30 * time.Minute)
	fresh := store.Open("game-3", nil, 0)

	current = current.Add(45 * time.Minute)
	assert.Equal(t, 2, store.Sweep())

	_, ok := store.Get(fresh.Token)
	assert.True(t, ok, "unexpired session survives the sweep")
}
