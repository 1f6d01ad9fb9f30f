package services

import (
	"testing"

	"bounty-settlement-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBountyAward(t *testing.T) {
	tests := []struct {
		name          string
		bountyPerKill float64
		maxBounty     float64
		pool          float64
		want          float64
	}{
		{name: "full award with room to spare", bountyPerKill: 100, maxBounty: 600, pool: 0, want: 100},
		{name: "award capped by remaining capacity", bountyPerKill: 100, maxBounty: 600, pool: 550, want: 50},
		{name: "pool exactly at cap", bountyPerKill: 100, maxBounty: 600, pool: 600, want: 0},
		{name: "pool past cap", bountyPerKill: 100, maxBounty: 600, pool: 700, want: 0},
		{name: "last unit of capacity", bountyPerKill: 100, maxBounty: 600, pool: 599, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &models.Game{
				BountyPerKill: tt.bountyPerKill,
				MaxBounty:     tt.maxBounty,
				BountyPool:    tt.pool,
			}
			assert.Equal(t, tt.want, BountyAward(game))
		})
	}
}

func TestClaimBounty(t *testing.T) {
	killer := &models.Player{ID: "p1", Name: "Dodo"}
	victim := &models.Player{ID: "p2", Name: "Ash"}

	tests := []struct {
		name       string
		killer     *models.Player
		victim     *models.Player
		pool       float64
		wantErr    error
		wantAmount float64
	}{
		{name: "valid claim", killer: killer, victim: victim, pool: 0, wantAmount: 100},
		{name: "claim capped by remaining capacity", killer: killer, victim: victim, pool: 550, wantAmount: 50},
		{name: "self claim rejected", killer: killer, victim: killer, pool: 0, wantErr: ErrSelfBounty},
		{name: "pool at cap rejected", killer: killer, victim: victim, pool: 600, wantErr: ErrBountyPoolExhausted},
		{name: "pool past cap rejected", killer: killer, victim: victim, pool: 700, wantErr: ErrBountyPoolExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &models.Game{
				BountyPerKill: 100,
				MaxBounty:     600,
				BountyPool:    tt.pool,
				BountyRecords: []models.BountyRecord{{ID: "r1", Amount: tt.pool}},
			}

			record, err := ClaimBounty(game, tt.killer, tt.victim)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// A rejected claim leaves ledger and pool exactly as they were.
				assert.Len(t, game.BountyRecords, 1)
				assert.Equal(t, tt.pool, game.BountyPool)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, record.Amount)
			assert.Equal(t, "Dodo", record.KillerName)
			assert.Equal(t, "Ash", record.VictimName)
			assert.NotEmpty(t, record.ID)
			require.Len(t, game.BountyRecords, 2)
			assert.Equal(t, record.ID, game.BountyRecords[1].ID)
			assert.Equal(t, tt.pool+tt.wantAmount, game.BountyPool)
		})
	}
}

func TestRefundBountyPool(t *testing.T) {
	assert.Equal(t, 300.0, RefundBountyPool(400, 100))
	assert.Equal(t, 0.0, RefundBountyPool(400, 400))
	// Never negative, even if the ledger somehow over-refunds.
	assert.Equal(t, 0.0, RefundBountyPool(50, 100))
}

func TestRemoveBountyRecord(t *testing.T) {
	records := []models.BountyRecord{
		{ID: "r1", Amount: 100},
		{ID: "r2", Amount: 50},
		{ID: "r3", Amount: 100},
	}

	t.Run("removes the matching record", func(t *testing.T) {
		remaining, removed, found := RemoveBountyRecord(records, "r2")
		require.True(t, found)
		assert.Equal(t, "r2", removed.ID)
		assert.Equal(t, 50.0, removed.Amount)
		require.Len(t, remaining, 2)
		assert.Equal(t, "r1", remaining[0].ID)
		assert.Equal(t, "r3", remaining[1].ID)
		// The caller's slice is left alone.
		assert.Len(t, records, 3)
		assert.Equal(t, "r2", records[1].ID)
	})

	t.Run("unknown id leaves the ledger untouched", func(t *testing.T) {
		remaining, _, found := RemoveBountyRecord(records, "nope")
		assert.False(t, found)
		assert.Len(t, remaining, 3)
	})
}
