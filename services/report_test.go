package services

import (
	"encoding/json"
	"testing"
	"time"

	"bounty-settlement-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSettlementReport(t *testing.T) {
	game := testGame(200)
	game.Slug = "game-1"
	finished := time.Date(2026, 8, 30, 22, 15, 0, 0, time.UTC)
	game.FinishTime = &finished
	game.SettlementData = ComputeSettlement(game, testPlayers(3000, 2500, 2000), nil, models.DefaultSettlementInput())

	body, err := BuildSettlementReport(game)
	require.NoError(t, err)

	var report SettlementReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, game.ID, report.GameID)
	assert.Equal(t, "Game 1", report.GameName)
	assert.Equal(t, "4:3:2:1", report.Config.RewardRatios)
	require.NotNil(t, report.Result)
	assert.Len(t, report.Result.FinalResults, 3)
	assert.Contains(t, report.Summary, "Game 1")
	assert.Contains(t, report.Summary, "#1 PlayerA")
}

func TestBuildSettlementReportRequiresResult(t *testing.T) {
	game := testGame(200)
	_, err := BuildSettlementReport(game)
	assert.Error(t, err)
}

func TestReportFilename(t *testing.T) {
	game := testGame(200)
	game.ID = "0123456789abcdef"
	game.Slug = "game-7"
	assert.Equal(t, "game-7-01234567.json", ReportFilename(game))
}

func TestFormatSettlementSummaryGroupsDigits(t *testing.T) {
	game := testGame(5000)
	players := testPlayers(12000, 8000, 4000)
	result := ComputeSettlement(game, players, nil, models.DefaultSettlementInput())

	summary := FormatSettlementSummary(game.Name, result)
	assert.Contains(t, summary, "24,000 pts")
	assert.Contains(t, summary, "15,000")
}
