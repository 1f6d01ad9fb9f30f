// models/game.go
package models

import (
	"time"
)

const (
	GameStatusActive   = "active"
	GameStatusFinished = "finished"
)

// Default game configuration applied when the create form leaves a field blank.
const (
	DefaultMaxPlayers    = 5
	DefaultEntryFee      = 200
	DefaultInitialScore  = 2000
	DefaultBountyPerKill = 100
	DefaultMaxBounty     = 600
	DefaultRewardRatios  = "4:3:2:1"
	DefaultPenaltyRatios = "2:3:5"
)

// MinPlayersForSettlement gates the settlement flow: with fewer than three
// players there is nothing meaningful to rank.
const MinPlayersForSettlement = 3

type Game struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"index"`

	// ⚙️ Config — immutable after creation
	MaxPlayers    int     `json:"max_players" gorm:"not null"`
	EntryFee      float64 `json:"entry_fee" gorm:"not null"`
	InitialScore  int     `json:"initial_score" gorm:"not null"`
	BountyPerKill float64 `json:"bounty_per_kill" gorm:"not null"`
	MaxBounty     float64 `json:"max_bounty" gorm:"not null"`
	RewardRatios  string  `json:"reward_ratios" gorm:"not null"`  // highest rank first, e.g. "4:3:2:1"
	PenaltyRatios string  `json:"penalty_ratios" gorm:"not null"` // lowest rank last, e.g. "2:3:5"

	// 🎛️ Lifecycle state
	Status string `json:"status" gorm:"default:'active'"` // active | finished

	// 💰 Bounty ledger — records and running pool total live on the game row so
	// both persist in the same update; a reload can never observe one without
	// the other.
	BountyPool    float64        `json:"bounty_pool" gorm:"default:0"`
	BountyRecords []BountyRecord `json:"bounty_records" gorm:"serializer:json"`

	// 🏁 Settlement — written once when the game finishes, never updated after
	SettlementData *SettlementResult `json:"settlement_data,omitempty" gorm:"serializer:json"`
	FinishTime     *time.Time        `json:"finish_time,omitempty"`
	ReportURL      string            `json:"report_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Calculated fields (not stored in DB)
	PlayerCount int64 `json:"player_count" gorm:"-"`
}

// Finished reports whether the game has been settled. The transition is one
// way: finished games never go back to active.
func (g *Game) Finished() bool {
	return g.Status == GameStatusFinished
}

// RemainingBountyCapacity is how much the bounty pool can still grow before
// hitting the configured cap.
func (g *Game) RemainingBountyCapacity() float64 {
	remaining := g.MaxBounty - g.BountyPool
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BountyRecord is one kill event in a game's ledger.
type BountyRecord struct {
	ID         string    `json:"id"`
	KillerName string    `json:"killer_name"`
	VictimName string    `json:"victim_name"`
	Amount     float64   `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}
