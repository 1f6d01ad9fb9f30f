// services/settlement_engine.go
package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"bounty-settlement-system/models"
)

// Settlement rates per ledger record: each kill pays the killer a flat 100
// and books a flat 200 into the bounty pool. Intentionally not tied to the
// game's configured bounty_per_kill, which only caps what the live ledger
// awards; the table has never reconciled the two figures.
const (
	settledBountyPerKill = 100.0
	bountyPoolPerKill    = 200.0
)

// ParseRatios splits a colon-separated ratio string ("4:3:2:1") into its
// positive integer weights. Non-numeric and non-positive segments are dropped;
// an empty result means that distribution has no recipients.
func ParseRatios(ratioString string) []int {
	var ratios []int
	for _, part := range strings.Split(ratioString, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		ratios = append(ratios, n)
	}
	return ratios
}

// CalculateDistribution splits a pool across the given weights. Each share is
// rounded independently; the residual is not redistributed.
func CalculateDistribution(pool float64, ratios []int) []float64 {
	if len(ratios) == 0 {
		return nil
	}
	total := 0
	for _, r := range ratios {
		total += r
	}
	shares := make([]float64, len(ratios))
	for i, r := range ratios {
		shares[i] = math.Round(pool * float64(r) / float64(total))
	}
	return shares
}

// ComputeSettlement turns a full game snapshot (config, players, bounty
// ledger, operator inputs) into the final ranked monetary outcome. Pure: no
// storage access, no mutation of its arguments.
func ComputeSettlement(game *models.Game, players []models.Player, records []models.BountyRecord, input models.SettlementInput) *models.SettlementResult {
	// 1. Bounty tallies per player name.
	killedCount := make(map[string]int)
	killerCount := make(map[string]int)
	for _, record := range records {
		killedCount[record.VictimName]++
		killerCount[record.KillerName]++
	}

	// 2. Entry-fee pool: flat configured fee per seat.
	totalEntryFees := float64(len(players)) * game.EntryFee

	// 3. Bounty pool accounting at the flat per-record rates.
	totalBountyPool := float64(len(records)) * bountyPoolPerKill
	bountyPaidToKillers := float64(len(records)) * settledBountyPerKill
	remainingBountyPool := totalBountyPool - bountyPaidToKillers

	// 4-7. Pools and the meal split.
	availablePrizePool := totalEntryFees + remainingBountyPool + input.OtherBonus
	mealShareAmount := math.Round(availablePrizePool * input.FinalMealShareRatio / 100)
	remainingMealCost := math.Max(0, input.FinalMealCost-mealShareAmount)
	remainingPrizePool := availablePrizePool - mealShareAmount

	totalScore := 0
	for _, p := range players {
		totalScore += p.CurrentScore
	}

	// 8. Rank by score, descending. The sort is stable: equal scores keep
	// their original relative order, which is the only tiebreak rule.
	ranked := make([]models.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CurrentScore > ranked[j].CurrentScore
	})

	// 9-10. Ratio parsing and proportional splits.
	result := &models.SettlementResult{
		PrizePool:           totalEntryFees,
		BountyPool:          totalBountyPool,
		RemainingBountyPool: remainingBountyPool,
		AvailablePrizePool:  availablePrizePool,
		MealCost:            input.FinalMealCost,
		MealShareAmount:     mealShareAmount,
		RemainingMealCost:   remainingMealCost,
		RemainingPrizePool:  remainingPrizePool,
		OtherBonus:          input.OtherBonus,
		TotalScore:          totalScore,
	}

	rewardRatios := ParseRatios(game.RewardRatios)
	penaltyRatios := ParseRatios(game.PenaltyRatios)
	if len(rewardRatios) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("reward ratios %q yield no recipients; prize distribution skipped", game.RewardRatios))
	}
	if len(penaltyRatios) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("penalty ratios %q yield no recipients; meal-cost distribution skipped", game.PenaltyRatios))
	}

	rewardCount := len(rewardRatios)
	penaltyCount := len(penaltyRatios)
	rewardDistribution := CalculateDistribution(remainingPrizePool, rewardRatios)
	penaltyDistribution := CalculateDistribution(remainingMealCost, penaltyRatios)

	// 11-12. Assign rewards to the top ranks and penalties to the bottom,
	// then derive each player's final figures. When the player count is small
	// enough for the ranges to overlap, rewards win: a player already holding
	// a prize is never also penalized.
	result.FinalResults = make([]models.PlayerResult, len(ranked))
	for index, player := range ranked {
		killedTimes := killedCount[player.Name]
		killerTimes := killerCount[player.Name]
		bountyEarned := float64(killerTimes) * settledBountyPerKill

		var prizeAmount, penaltyAmount float64
		if index < rewardCount && index < len(rewardDistribution) {
			prizeAmount = rewardDistribution[index]
		} else if index >= len(ranked)-penaltyCount {
			penaltyIndex := index - (len(ranked) - penaltyCount)
			if penaltyIndex >= 0 && penaltyIndex < len(penaltyDistribution) {
				penaltyAmount = penaltyDistribution[penaltyIndex]
			}
		}

		entryFee := game.EntryFee
		bountyPaid := float64(killedTimes) * game.EntryFee
		totalPaid := entryFee + penaltyAmount + bountyPaid
		totalReceived := prizeAmount + bountyEarned

		result.FinalResults[index] = models.PlayerResult{
			PlayerID:         player.ID,
			Name:             player.Name,
			CurrentScore:     player.CurrentScore,
			Rank:             index + 1,
			KilledTimes:      killedTimes,
			KillerTimes:      killerTimes,
			PrizeAmount:      prizeAmount,
			PenaltyAmount:    penaltyAmount,
			BountyEarned:     bountyEarned,
			EntryFee:         entryFee,
			BountyPaid:       bountyPaid,
			TotalPaid:        totalPaid,
			TotalReceived:    totalReceived,
			NetResult:        totalReceived - totalPaid,
			SettlementAmount: prizeAmount + bountyEarned - penaltyAmount,
		}
	}

	return result
}
