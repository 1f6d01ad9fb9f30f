// services/report.go
package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bounty-settlement-system/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SettlementReport is the archived artifact for a finished game: the full
// result plus a human-readable summary for whoever opens the file later.
type SettlementReport struct {
	GameID     string                   `json:"game_id"`
	GameName   string                   `json:"game_name"`
	FinishedAt *time.Time               `json:"finished_at,omitempty"`
	Config     SettlementReportConfig   `json:"config"`
	Result     *models.SettlementResult `json:"result"`
	Summary    string                   `json:"summary"`
}

type SettlementReportConfig struct {
	EntryFee      float64 `json:"entry_fee"`
	BountyPerKill float64 `json:"bounty_per_kill"`
	MaxBounty     float64 `json:"max_bounty"`
	RewardRatios  string  `json:"reward_ratios"`
	PenaltyRatios string  `json:"penalty_ratios"`
}

// BuildSettlementReport renders the archived report for a finished game.
func BuildSettlementReport(game *models.Game) ([]byte, error) {
	if game.SettlementData == nil {
		return nil, fmt.Errorf("game %s has no settlement data", game.ID)
	}
	report := SettlementReport{
		GameID:     game.ID,
		GameName:   game.Name,
		FinishedAt: game.FinishTime,
		Config: SettlementReportConfig{
			EntryFee:      game.EntryFee,
			BountyPerKill: game.BountyPerKill,
			MaxBounty:     game.MaxBounty,
			RewardRatios:  game.RewardRatios,
			PenaltyRatios: game.PenaltyRatios,
		},
		Result:  game.SettlementData,
		Summary: FormatSettlementSummary(game.Name, game.SettlementData),
	}
	return json.MarshalIndent(report, "", "  ")
}

// ReportFilename is the object key / local filename for a game's report.
func ReportFilename(game *models.Game) string {
	id := game.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s.json", game.Slug, id)
}

// FormatSettlementSummary writes the table-talk version of the result, with
// grouped digits for the larger amounts.
func FormatSettlementSummary(gameName string, result *models.SettlementResult) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	p.Fprintf(&b, "%s — settlement\n", gameName)
	p.Fprintf(&b, "Total score: %d pts\n", result.TotalScore)
	p.Fprintf(&b, "Entry fees: %.0f | Bounty pool remainder: %.0f | Other bonus: %.0f\n",
		result.PrizePool, result.RemainingBountyPool, result.OtherBonus)
	p.Fprintf(&b, "Available prize pool: %.0f (meal share %.0f, meal cost %.0f)\n",
		result.AvailablePrizePool, result.MealShareAmount, result.MealCost)
	p.Fprintf(&b, "Distributed as prizes: %.0f\n", result.RemainingPrizePool)
	for _, r := range result.FinalResults {
		sign := "+"
		if r.SettlementAmount < 0 {
			sign = "-"
		}
		p.Fprintf(&b, "#%d %s (%d pts): %s%.0f (prize %.0f, bounty %.0f, penalty %.0f, net %.0f)\n",
			r.Rank, r.Name, r.CurrentScore, sign, abs(r.SettlementAmount),
			r.PrizeAmount, r.BountyEarned, r.PenaltyAmount, r.NetResult)
	}
	for _, w := range result.Warnings {
		p.Fprintf(&b, "⚠️ %s\n", w)
	}
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
