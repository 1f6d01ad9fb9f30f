// models/player.go
package models

import "time"

// Player belongs to exactly one game. Players are never deleted; once the game
// finishes the record is frozen with the final score and bounty earned.
type Player struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"index;not null"`

	Name              string  `json:"name" gorm:"not null"`
	CurrentScore      int     `json:"current_score"`
	EntryFeePaid      float64 `json:"entry_fee_paid"`
	AdditionalEntries int     `json:"additional_entries" gorm:"default:0"`
	BountyEarned      float64 `json:"bounty_earned" gorm:"default:0"` // filled in at settlement

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
