// models/settlement.go
package models

// SettlementInput holds the operator-entered figures collected on the
// settlement screen. Persisted per game through the KV store under
// `settlementInputs_<gameID>` so a revisit before finishing reloads them.
type SettlementInput struct {
	FinalMealCost       float64 `json:"final_meal_cost"`
	FinalMealShareRatio float64 `json:"final_meal_share_ratio"` // percent of the prize pool, 0-100
	OtherBonus          float64 `json:"other_bonus"`
}

// DefaultSettlementInput mirrors the defaults the settlement screen starts
// with: no meal cost, 10% pool share, no extra bonus.
func DefaultSettlementInput() SettlementInput {
	return SettlementInput{FinalMealShareRatio: 10}
}

// PlayerResult is one player's final line in the settlement.
//
// NetResult and SettlementAmount are both surfaced on purpose: net result
// accounts for the entry fee and bounty paid out of pocket, while the
// settlement amount is the cash that actually changes hands at the table
// (prize + bounty earned - penalty). They are not reconciled into one number.
type PlayerResult struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name"`
	CurrentScore int    `json:"current_score"`
	Rank         int    `json:"rank"`

	KilledTimes int `json:"killed_times"`
	KillerTimes int `json:"killer_times"`

	PrizeAmount      float64 `json:"prize_amount"`
	PenaltyAmount    float64 `json:"penalty_amount"`
	BountyEarned     float64 `json:"bounty_earned"`
	EntryFee         float64 `json:"entry_fee"`
	BountyPaid       float64 `json:"bounty_paid"` // killed_times × entry fee, owed to the pool
	TotalPaid        float64 `json:"total_paid"`
	TotalReceived    float64 `json:"total_received"`
	NetResult        float64 `json:"net_result"`
	SettlementAmount float64 `json:"settlement_amount"`
}

// SettlementResult is the full outcome of settling a game. Written to the game
// record once, on finish, and immutable after that.
type SettlementResult struct {
	PrizePool           float64 `json:"prize_pool"` // total entry fees
	BountyPool          float64 `json:"bounty_pool"`
	RemainingBountyPool float64 `json:"remaining_bounty_pool"`
	AvailablePrizePool  float64 `json:"available_prize_pool"`
	MealCost            float64 `json:"meal_cost"`
	MealShareAmount     float64 `json:"meal_share_amount"`
	RemainingMealCost   float64 `json:"remaining_meal_cost"`
	RemainingPrizePool  float64 `json:"remaining_prize_pool"`
	OtherBonus          float64 `json:"other_bonus"`
	TotalScore          int     `json:"total_score"`

	FinalResults []PlayerResult `json:"final_results"`

	// Warnings carries degraded-configuration notices (e.g. a ratio string
	// that parsed to no recipients). The computation still completes; the
	// affected distribution is simply empty.
	Warnings []string `json:"warnings,omitempty"`
}
