// services/settlement_service.go
package services

import (
	"errors"
	"log"
	"time"

	"bounty-settlement-system/models"
	"bounty-settlement-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SettlementService drives the end-of-game flow: open a session, collect the
// operator's inputs and score corrections, preview the outcome, then finish
// the game for good. The arithmetic itself lives in ComputeSettlement.
type SettlementService struct {
	DB       *gorm.DB
	KV       *utils.KVStore
	Sessions *SessionStore
}

func NewSettlementService(db *gorm.DB, kv *utils.KVStore, sessions *SessionStore) *SettlementService {
	return &SettlementService{DB: db, KV: kv, Sessions: sessions}
}

// SessionLocalKey is where the session middleware parks the resolved session.
const SessionLocalKey = "settlement_session"

func sessionFromCtx(c *fiber.Ctx) *SettlementSession {
	session, _ := c.Locals(SessionLocalKey).(*SettlementSession)
	return session
}

// OpenSession freezes the game's bounty ledger into a settlement session and
// hands back a token for the settlement screen. Requires an active game with
// enough players to rank.
func (s *SettlementService) OpenSession(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
		}
		log.Printf("DB Error loading game: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if game.Finished() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is already finished"})
	}

	var playerCount int64
	if err := s.DB.Model(&models.Player{}).Where("game_id = ?", game.ID).Count(&playerCount).Error; err != nil {
		log.Printf("DB Error counting players: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if playerCount < models.MinPlayersForSettlement {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not enough players to settle"})
	}

	session := s.Sessions.Open(game.ID, game.BountyRecords, game.BountyPool)
	log.Printf("🧾 Settlement session opened for game %s (%d bounty records)", game.ID, len(session.BountyRecords))
	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetInputs returns the saved operator inputs for the session's game, falling
// back to the defaults on first visit.
func (s *SettlementService) GetInputs(c *fiber.Ctx) error {
	session := sessionFromCtx(c)
	input := models.DefaultSettlementInput()
	s.KV.Get(models.StorageKeyPrefixInputs+session.GameID, &input)
	return c.JSON(input)
}

// SaveInputs validates and persists the operator inputs so a revisit before
// finishing reloads them.
func (s *SettlementService) SaveInputs(c *fiber.Ctx) error {
	session := sessionFromCtx(c)

	var input models.SettlementInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.FinalMealCost < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "final_meal_cost must be non-negative"})
	}
	if input.FinalMealShareRatio < 0 || input.FinalMealShareRatio > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "final_meal_share_ratio must be between 0 and 100"})
	}
	if input.OtherBonus < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "other_bonus must be non-negative"})
	}

	if !s.KV.Set(models.StorageKeyPrefixInputs+session.GameID, input) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settlement inputs"})
	}
	return c.JSON(input)
}

// UpdatePlayerScore records the operator's final score correction for one
// player before the settlement is computed.
func (s *SettlementService) UpdatePlayerScore(c *fiber.Ctx) error {
	session := sessionFromCtx(c)

	var req struct {
		Score *int `json:"score"`
	}
	if err := c.BodyParser(&req); err != nil || req.Score == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "score is required"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ? AND game_id = ?", c.Params("player_id"), session.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found in this game"})
		}
		log.Printf("DB Error loading player: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	game, err := s.sessionGame(session)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if game.Finished() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is already finished"})
	}

	if err := s.DB.Model(&player).Update("current_score", *req.Score).Error; err != nil {
		log.Printf("DB Error updating score: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update score"})
	}
	player.CurrentScore = *req.Score
	return c.JSON(player)
}

// PreviewSettlement computes the settlement over a fresh snapshot without
// persisting anything. The operator can tweak inputs and preview again.
func (s *SettlementService) PreviewSettlement(c *fiber.Ctx) error {
	session := sessionFromCtx(c)
	game, players, input, err := s.settlementSnapshot(session)
	if err != nil {
		return s.snapshotError(c, err)
	}
	return c.JSON(ComputeSettlement(game, players, session.BountyRecords, input))
}

// FinishSettlement computes the final settlement and writes it back: the game
// flips to finished, the result and finish time are stored, each player's
// bounty earnings are frozen. Irreversible.
func (s *SettlementService) FinishSettlement(c *fiber.Ctx) error {
	session := sessionFromCtx(c)
	game, players, input, err := s.settlementSnapshot(session)
	if err != nil {
		return s.snapshotError(c, err)
	}

	result := ComputeSettlement(game, players, session.BountyRecords, input)
	now := time.Now()

	game.Status = models.GameStatusFinished
	game.SettlementData = result
	game.FinishTime = &now

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Guarding on status=active keeps the flip one-way even if two finish
		// requests race; the loser must not touch player earnings either.
		flip := tx.Model(game).
			Select("status", "settlement_data", "finish_time").
			Where("status = ?", models.GameStatusActive).
			Updates(game)
		if err := finishFlipResult(flip.RowsAffected, flip.Error); err != nil {
			return err
		}
		for _, pr := range result.FinalResults {
			if err := tx.Model(&models.Player{}).Where("id = ?", pr.PlayerID).
				Update("bounty_earned", pr.BountyEarned).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errGameFinished) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is already finished"})
	}
	if err != nil {
		log.Printf("DB Error finishing settlement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finish settlement"})
	}

	s.Sessions.Delete(session.Token)
	log.Printf("🏁 Game %s settled: pool %.0f across %d players", game.ID, result.AvailablePrizePool, len(result.FinalResults))
	return c.JSON(game)
}

var errGameFinished = errors.New("game is already finished")

// finishFlipResult interprets the guarded status flip: zero rows updated means
// another finish won the race and this one must stop before writing anything.
func finishFlipResult(rowsAffected int64, err error) error {
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errGameFinished
	}
	return nil
}

// settlementSnapshot loads everything the engine needs: game config, the
// current players, and the saved operator inputs.
func (s *SettlementService) settlementSnapshot(session *SettlementSession) (*models.Game, []models.Player, models.SettlementInput, error) {
	input := models.DefaultSettlementInput()

	game, err := s.sessionGame(session)
	if err != nil {
		return nil, nil, input, err
	}
	if game.Finished() {
		return nil, nil, input, errGameFinished
	}

	var players []models.Player
	if err := s.DB.Where("game_id = ?", session.GameID).Order("created_at ASC").Find(&players).Error; err != nil {
		return nil, nil, input, err
	}

	s.KV.Get(models.StorageKeyPrefixInputs+session.GameID, &input)
	return game, players, input, nil
}

func (s *SettlementService) sessionGame(session *SettlementSession) (*models.Game, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", session.GameID).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *SettlementService) snapshotError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errGameFinished):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is already finished"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
	default:
		log.Printf("DB Error loading settlement snapshot: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
}
