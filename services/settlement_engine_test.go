package services

import (
	"testing"
	"time"

	"bounty-settlement-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGame(entryFee float64) *models.Game {
	return &models.Game{
		ID:            "game-1",
		Name:          "Game 1",
		MaxPlayers:    5,
		EntryFee:      entryFee,
		InitialScore:  2000,
		BountyPerKill: 100,
		MaxBounty:     600,
		RewardRatios:  "4:3:2:1",
		PenaltyRatios: "2:3:5",
		Status:        models.GameStatusActive,
	}
}

func testPlayers(scores ...int) []models.Player {
	players := make([]models.Player, len(scores))
	for i, score := range scores {
		players[i] = models.Player{
			ID:           string(rune('a' + i)),
			GameID:       "game-1",
			Name:         "Player" + string(rune('A'+i)),
			CurrentScore: score,
		}
	}
	return players
}

func kill(killer, victim string) models.BountyRecord {
	return models.BountyRecord{
		ID:         killer + ">" + victim,
		KillerName: killer,
		VictimName: victim,
		Amount:     100,
		Timestamp:  time.Now(),
	}
}

func TestParseRatios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{name: "standard reward string", input: "4:3:2:1", want: []int{4, 3, 2, 1}},
		{name: "penalty string", input: "2:3:5", want: []int{2, 3, 5}},
		{name: "whitespace tolerated", input: " 4 : 3 ", want: []int{4, 3}},
		{name: "non-numeric segments dropped", input: "4:x:2", want: []int{4, 2}},
		{name: "non-positive segments dropped", input: "0:-1:3", want: []int{3}},
		{name: "all invalid yields empty", input: "0:zero", want: nil},
		{name: "empty string yields empty", input: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRatios(tt.input))
		})
	}
}

func TestCalculateDistribution(t *testing.T) {
	t.Run("exact split", func(t *testing.T) {
		assert.Equal(t, []float64{400, 300, 200, 100}, CalculateDistribution(1000, []int{4, 3, 2, 1}))
	})

	t.Run("no recipients", func(t *testing.T) {
		assert.Nil(t, CalculateDistribution(1000, nil))
	})

	t.Run("independent rounding stays within one unit per recipient", func(t *testing.T) {
		ratios := []int{1, 1, 1}
		shares := CalculateDistribution(100, ratios)
		require.Len(t, shares, 3)
		sum := 0.0
		for _, share := range shares {
			sum += share
		}
		// 3 × round(33.33) = 99; the residual is accepted, not redistributed.
		assert.InDelta(t, 100, sum, float64(len(ratios)))
		assert.Equal(t, []float64{33, 33, 33}, shares)
	})
}

func TestComputeSettlementEndToEnd(t *testing.T) {
	game := testGame(200)
	players := testPlayers(3000, 2500, 2000, 1500)
	input := models.SettlementInput{FinalMealCost: 0, FinalMealShareRatio: 10, OtherBonus: 0}

	result := ComputeSettlement(game, players, nil, input)

	assert.Equal(t, 800.0, result.PrizePool)
	assert.Equal(t, 800.0, result.AvailablePrizePool)
	assert.Equal(t, 80.0, result.MealShareAmount)
	assert.Equal(t, 720.0, result.RemainingPrizePool)
	assert.Equal(t, 0.0, result.RemainingMealCost)
	assert.Equal(t, 9000, result.TotalScore)

	require.Len(t, result.FinalResults, 4)
	top := result.FinalResults[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "PlayerA", top.Name)
	assert.Equal(t, 288.0, top.PrizeAmount) // round(720×4/10)
	assert.Equal(t, 216.0, result.FinalResults[1].PrizeAmount)
	assert.Equal(t, 144.0, result.FinalResults[2].PrizeAmount)
	assert.Equal(t, 72.0, result.FinalResults[3].PrizeAmount)

	// Reward range covers all four seats, so nobody is penalized.
	for _, r := range result.FinalResults {
		assert.Zero(t, r.PenaltyAmount)
	}

	// Per-player money: no bounties, so net = prize - entry fee.
	assert.Equal(t, 200.0, top.EntryFee)
	assert.Equal(t, 88.0, top.NetResult)
	assert.Equal(t, 288.0, top.SettlementAmount)
}

func TestComputeSettlementBountyPoolConstants(t *testing.T) {
	// The settlement's bounty accounting uses flat 200/100 per record no
	// matter what bounty_per_kill the ledger awarded with.
	game := testGame(200)
	game.BountyPerKill = 50

	records := []models.BountyRecord{
		kill("PlayerA", "PlayerB"),
		kill("PlayerA", "PlayerC"),
		kill("PlayerB", "PlayerA"),
	}
	players := testPlayers(3000, 2500, 2000)
	input := models.DefaultSettlementInput()

	result := ComputeSettlement(game, players, records, input)

	assert.Equal(t, 600.0, result.BountyPool)          // 200 × 3
	assert.Equal(t, 300.0, result.RemainingBountyPool) // 200×3 − 100×3

	playerA := result.FinalResults[0]
	require.Equal(t, "PlayerA", playerA.Name)
	assert.Equal(t, 2, playerA.KillerTimes)
	assert.Equal(t, 1, playerA.KilledTimes)
	assert.Equal(t, 200.0, playerA.BountyEarned) // 2 × flat 100, not 2 × 50
	assert.Equal(t, 200.0, playerA.BountyPaid)   // killed once × entry fee
}

func TestComputeSettlementRankingIsStable(t *testing.T) {
	game := testGame(200)
	players := testPlayers(2000, 2500, 2000, 2000)
	input := models.DefaultSettlementInput()

	result := ComputeSettlement(game, players, nil, input)

	require.Len(t, result.FinalResults, 4)
	assert.Equal(t, "PlayerB", result.FinalResults[0].Name)
	// The three tied players keep their original relative order.
	assert.Equal(t, "PlayerA", result.FinalResults[1].Name)
	assert.Equal(t, "PlayerC", result.FinalResults[2].Name)
	assert.Equal(t, "PlayerD", result.FinalResults[3].Name)
}

func TestComputeSettlementRewardPrecedenceOnOverlap(t *testing.T) {
	// Three players, four reward ratios, three penalty ratios: every seat
	// falls in both ranges. Rewards win; nobody holds a prize and a penalty.
	game := testGame(200)
	players := testPlayers(3000, 2500, 2000)
	input := models.SettlementInput{FinalMealCost: 500, FinalMealShareRatio: 10}

	result := ComputeSettlement(game, players, nil, input)

	require.Len(t, result.FinalResults, 3)
	for _, r := range result.FinalResults {
		assert.Positive(t, r.PrizeAmount, "seat %d should be rewarded", r.Rank)
		assert.Zero(t, r.PenaltyAmount, "seat %d should not also be penalized", r.Rank)
	}
}

func TestComputeSettlementPenaltiesCoverMealShortfall(t *testing.T) {
	game := testGame(200)
	game.RewardRatios = "1"
	game.PenaltyRatios = "1:1"
	players := testPlayers(3000, 2500, 2000)
	input := models.SettlementInput{FinalMealCost: 700, FinalMealShareRatio: 50}

	result := ComputeSettlement(game, players, nil, input)

	// available = 600, meal share = 300, shortfall = 400, prizes from 300.
	assert.Equal(t, 600.0, result.AvailablePrizePool)
	assert.Equal(t, 300.0, result.MealShareAmount)
	assert.Equal(t, 400.0, result.RemainingMealCost)
	assert.Equal(t, 300.0, result.RemainingPrizePool)

	require.Len(t, result.FinalResults, 3)
	assert.Equal(t, 300.0, result.FinalResults[0].PrizeAmount)
	assert.Equal(t, 200.0, result.FinalResults[1].PenaltyAmount)
	assert.Equal(t, 200.0, result.FinalResults[2].PenaltyAmount)

	last := result.FinalResults[2]
	assert.Equal(t, -200.0, last.SettlementAmount)
	// totalPaid = entry 200 + penalty 200; net = 0 - 400.
	assert.Equal(t, 400.0, last.TotalPaid)
	assert.Equal(t, -400.0, last.NetResult)
}

func TestComputeSettlementDegradedRatios(t *testing.T) {
	game := testGame(200)
	game.RewardRatios = "0:0"
	game.PenaltyRatios = "nope"
	players := testPlayers(3000, 2500, 2000)
	input := models.SettlementInput{FinalMealCost: 300, FinalMealShareRatio: 10}

	result := ComputeSettlement(game, players, nil, input)

	// Degrades to zero distribution instead of aborting.
	require.Len(t, result.FinalResults, 3)
	for _, r := range result.FinalResults {
		assert.Zero(t, r.PrizeAmount)
		assert.Zero(t, r.PenaltyAmount)
	}
	assert.Len(t, result.Warnings, 2)
}

func TestComputeSettlementDoesNotMutateInputs(t *testing.T) {
	game := testGame(200)
	players := testPlayers(2000, 3000, 2500)
	input := models.DefaultSettlementInput()

	_ = ComputeSettlement(game, players, nil, input)

	// The caller's player order survives the ranking sort.
	assert.Equal(t, "PlayerA", players[0].Name)
	assert.Equal(t, 2000, players[0].CurrentScore)
	assert.Equal(t, "PlayerB", players[1].Name)
	assert.Equal(t, "PlayerC", players[2].Name)
}
