// services/bounty.go
package services

import (
	"errors"
	"time"

	"bounty-settlement-system/models"

	"github.com/google/uuid"
)

var (
	ErrSelfBounty          = errors.New("a player cannot claim a bounty on themselves")
	ErrBountyPoolExhausted = errors.New("bounty pool exhausted")
)

// BountyAward returns the amount a new kill is worth given the game's config
// and the current pool total: the configured per-kill bounty, capped by the
// pool's remaining capacity. Zero means the pool is exhausted and no record
// may be created.
func BountyAward(game *models.Game) float64 {
	remaining := game.RemainingBountyCapacity()
	if remaining <= 0 {
		return 0
	}
	if game.BountyPerKill < remaining {
		return game.BountyPerKill
	}
	return remaining
}

// ClaimBounty validates a kill claim and applies it to the game: the record is
// appended to the ledger and its amount added to the pool. A rejected claim
// (self-kill, exhausted pool) leaves the game untouched.
func ClaimBounty(game *models.Game, killer, victim *models.Player) (models.BountyRecord, error) {
	if killer.ID == victim.ID {
		return models.BountyRecord{}, ErrSelfBounty
	}
	amount := BountyAward(game)
	if amount <= 0 {
		return models.BountyRecord{}, ErrBountyPoolExhausted
	}

	record := models.BountyRecord{
		ID:         uuid.NewString(),
		KillerName: killer.Name,
		VictimName: victim.Name,
		Amount:     amount,
		Timestamp:  time.Now(),
	}
	game.BountyRecords = append(game.BountyRecords, record)
	game.BountyPool += amount
	return record, nil
}

// RefundBountyPool returns the pool total after removing a record's amount.
// The pool never goes negative.
func RefundBountyPool(pool, amount float64) float64 {
	pool -= amount
	if pool < 0 {
		return 0
	}
	return pool
}

// RemoveBountyRecord returns the ledger without the given record and the
// removed record itself. The bool reports whether the record was found.
func RemoveBountyRecord(records []models.BountyRecord, recordID string) ([]models.BountyRecord, models.BountyRecord, bool) {
	for i, record := range records {
		if record.ID == recordID {
			return append(records[:i:i], records[i+1:]...), record, true
		}
	}
	return records, models.BountyRecord{}, false
}
