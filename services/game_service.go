// services/game_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"bounty-settlement-system/models"
	"bounty-settlement-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
	KV *utils.KVStore
}

func NewGameService(db *gorm.DB, kv *utils.KVStore) *GameService {
	return &GameService{DB: db, KV: kv}
}

// defaultRoster is offered when staffing a new game; override with the
// DEFAULT_ROSTER env var (comma-separated names).
var defaultRoster = []string{"Dodo", "Ash", "Murphy", "Kat", "Benny", "Lucky"}

// NormalizePlayerName folds a display name for uniqueness checks: accents are
// transliterated and case/whitespace ignored, so "José" and "jose " collide.
func NormalizePlayerName(name string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(name)))
}

// CreateGame creates a new active game. The name is generated ("Game N") and
// any config field left out of the request falls back to the house defaults.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var req struct {
		MaxPlayers    *int     `json:"max_players"`
		EntryFee      *float64 `json:"entry_fee"`
		InitialScore  *int     `json:"initial_score"`
		BountyPerKill *float64 `json:"bounty_per_kill"`
		MaxBounty     *float64 `json:"max_bounty"`
		RewardRatios  string   `json:"reward_ratios"`
		PenaltyRatios string   `json:"penalty_ratios"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	game := &models.Game{
		ID:            uuid.NewString(),
		MaxPlayers:    models.DefaultMaxPlayers,
		EntryFee:      models.DefaultEntryFee,
		InitialScore:  models.DefaultInitialScore,
		BountyPerKill: models.DefaultBountyPerKill,
		MaxBounty:     models.DefaultMaxBounty,
		RewardRatios:  models.DefaultRewardRatios,
		PenaltyRatios: models.DefaultPenaltyRatios,
		Status:        models.GameStatusActive,
	}

	if req.MaxPlayers != nil {
		if *req.MaxPlayers < 2 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_players must be at least 2"})
		}
		game.MaxPlayers = *req.MaxPlayers
	}
	if req.EntryFee != nil {
		if *req.EntryFee <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entry_fee must be positive"})
		}
		game.EntryFee = *req.EntryFee
	}
	if req.InitialScore != nil {
		if *req.InitialScore < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "initial_score must be non-negative"})
		}
		game.InitialScore = *req.InitialScore
	}
	if req.BountyPerKill != nil {
		if *req.BountyPerKill <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bounty_per_kill must be positive"})
		}
		game.BountyPerKill = *req.BountyPerKill
	}
	if req.MaxBounty != nil {
		if *req.MaxBounty < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_bounty must be non-negative"})
		}
		game.MaxBounty = *req.MaxBounty
	}
	if req.RewardRatios != "" {
		game.RewardRatios = req.RewardRatios
	}
	if req.PenaltyRatios != "" {
		game.PenaltyRatios = req.PenaltyRatios
	}

	// Auto-name like the original lobby: "Game <n>"
	var gameCount int64
	if err := s.DB.Model(&models.Game{}).Count(&gameCount).Error; err != nil {
		log.Printf("DB Error counting games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create game"})
	}
	game.Name = fmt.Sprintf("Game %d", gameCount+1)
	game.Slug = slug.Make(game.Name)

	if err := s.DB.Create(game).Error; err != nil {
		log.Printf("DB Error creating game: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create game"})
	}

	log.Printf("✅ Game created: %s (%s)", game.Name, game.ID)
	return c.Status(fiber.StatusCreated).JSON(game)
}

// GetAllGames lists games, newest first. The lobby asks for ?status=active;
// passing status=all returns everything including finished games.
func (s *GameService) GetAllGames(c *fiber.Ctx) error {
	status := c.Query("status", models.GameStatusActive)

	query := s.DB.Order("created_at DESC")
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		log.Printf("DB Error listing games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load games"})
	}

	for i := range games {
		s.attachPlayerCount(&games[i])
	}
	return c.JSON(games)
}

func (s *GameService) GetGameByID(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}
	s.attachPlayerCount(game)
	return c.JSON(game)
}

func (s *GameService) loadGame(id string) (*models.Game, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *GameService) attachPlayerCount(game *models.Game) {
	if err := s.DB.Model(&models.Player{}).Where("game_id = ?", game.ID).Count(&game.PlayerCount).Error; err != nil {
		log.Printf("DB Error counting players for game %s: %v", game.ID, err)
	}
}

func (s *GameService) gameLoadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
	}
	log.Printf("DB Error loading game: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
}

// GetGamePlayers lists the players seated at a game, in join order.
func (s *GameService) GetGamePlayers(c *fiber.Ctx) error {
	if _, err := s.loadGame(c.Params("id")); err != nil {
		return s.gameLoadError(c, err)
	}
	var players []models.Player
	if err := s.DB.Where("game_id = ?", c.Params("id")).Order("created_at ASC").Find(&players).Error; err != nil {
		log.Printf("DB Error loading players: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load players"})
	}
	return c.JSON(players)
}

// AddPlayer seats one player at an active game.
func (s *GameService) AddPlayer(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	player, status, err := s.addPlayerToGame(game, req.Name)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(player)
}

// AddPlayers seats several players at once, the "confirm selection" flow
// where the operator picks names off the roster. Duplicates and overflow are
// reported per name rather than failing the whole batch.
func (s *GameService) AddPlayers(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}

	var req struct {
		Names []string `json:"names"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Names) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "names is required"})
	}

	var added []models.Player
	skipped := map[string]string{}
	for _, name := range req.Names {
		player, _, err := s.addPlayerToGame(game, name)
		if err != nil {
			skipped[name] = err.Error()
			continue
		}
		added = append(added, *player)
	}

	log.Printf("✅ Added %d player(s) to game %s (%d skipped)", len(added), game.ID, len(skipped))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"added":   added,
		"skipped": skipped,
	})
}

func (s *GameService) addPlayerToGame(game *models.Game, name string) (*models.Player, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fiber.StatusBadRequest, errors.New("player name is required")
	}
	if game.Finished() {
		return nil, fiber.StatusConflict, errors.New("game is finished")
	}

	var players []models.Player
	if err := s.DB.Where("game_id = ?", game.ID).Find(&players).Error; err != nil {
		log.Printf("DB Error loading players: %v", err)
		return nil, fiber.StatusInternalServerError, errors.New("failed to load players")
	}
	if len(players) >= game.MaxPlayers {
		return nil, fiber.StatusConflict, errors.New("game is full")
	}
	normalized := NormalizePlayerName(name)
	for _, p := range players {
		if NormalizePlayerName(p.Name) == normalized {
			return nil, fiber.StatusConflict, errors.New("player name already taken")
		}
	}

	player := &models.Player{
		ID:           uuid.NewString(),
		GameID:       game.ID,
		Name:         name,
		CurrentScore: game.InitialScore,
		EntryFeePaid: game.EntryFee,
	}
	if err := s.DB.Create(player).Error; err != nil {
		log.Printf("DB Error creating player: %v", err)
		return nil, fiber.StatusInternalServerError, errors.New("failed to add player")
	}
	return player, fiber.StatusCreated, nil
}

// RecordBounty appends one kill event to the game's bounty ledger. The award
// is the configured per-kill bounty capped by the pool's remaining capacity;
// an exhausted pool rejects the record outright instead of logging a
// zero-value kill. Ledger and pool total are written in a single row update.
func (s *GameService) RecordBounty(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}
	if game.Finished() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is finished"})
	}

	var req struct {
		KillerPlayerID string `json:"killer_player_id"`
		VictimPlayerID string `json:"victim_player_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.KillerPlayerID == "" || req.VictimPlayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "killer_player_id and victim_player_id are required"})
	}

	killer, err := s.loadGamePlayer(game.ID, req.KillerPlayerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "killer is not a player in this game"})
	}
	victim, err := s.loadGamePlayer(game.ID, req.VictimPlayerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "victim is not a player in this game"})
	}

	record, err := ClaimBounty(game, killer, victim)
	if err != nil {
		status := fiber.StatusConflict
		if errors.Is(err, ErrSelfBounty) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.saveLedger(game); err != nil {
		log.Printf("DB Error recording bounty: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record bounty"})
	}

	log.Printf("💰 Bounty +%.0f: %s hunted %s (game %s, pool %.0f/%.0f)",
		record.Amount, killer.Name, victim.Name, game.ID, game.BountyPool, game.MaxBounty)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"record":      record,
		"bounty_pool": game.BountyPool,
	})
}

// GetBountyRecords lists the game's bounty ledger with the running pool total.
func (s *GameService) GetBountyRecords(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}
	return c.JSON(fiber.Map{
		"records":     game.BountyRecords,
		"bounty_pool": game.BountyPool,
		"max_bounty":  game.MaxBounty,
	})
}

// DeleteBountyRecord removes a kill event recorded by mistake and refunds its
// amount to the pool, clamped at zero. Only allowed before settlement.
func (s *GameService) DeleteBountyRecord(c *fiber.Ctx) error {
	game, err := s.loadGame(c.Params("id"))
	if err != nil {
		return s.gameLoadError(c, err)
	}
	if game.Finished() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is finished"})
	}

	records, removed, found := RemoveBountyRecord(game.BountyRecords, c.Params("record_id"))
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bounty record not found"})
	}
	game.BountyRecords = records
	game.BountyPool = RefundBountyPool(game.BountyPool, removed.Amount)

	if err := s.saveLedger(game); err != nil {
		log.Printf("DB Error deleting bounty record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete bounty record"})
	}

	log.Printf("🗑️ Bounty record removed: -%.0f (game %s, pool %.0f)", removed.Amount, game.ID, game.BountyPool)
	return c.JSON(fiber.Map{
		"deleted":     removed.ID,
		"bounty_pool": game.BountyPool,
	})
}

// saveLedger persists the bounty ledger and pool total together. Both columns
// go out in one UPDATE so no reader can see a pool computed from a ledger it
// doesn't match.
func (s *GameService) saveLedger(game *models.Game) error {
	return s.DB.Model(game).
		Select("bounty_pool", "bounty_records").
		Updates(game).Error
}

func (s *GameService) loadGamePlayer(gameID, playerID string) (*models.Player, error) {
	var player models.Player
	if err := s.DB.First(&player, "id = ? AND game_id = ?", playerID, gameID).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// GetDefaultRoster returns the frequently-used player names offered when
// staffing a new game.
func (s *GameService) GetDefaultRoster(c *fiber.Ctx) error {
	roster := defaultRoster
	if env := os.Getenv("DEFAULT_ROSTER"); env != "" {
		roster = nil
		for _, name := range strings.Split(env, ",") {
			if name = strings.TrimSpace(name); name != "" {
				roster = append(roster, name)
			}
		}
	}
	return c.JSON(fiber.Map{"names": roster})
}

// GetProfile returns the operator profile, creating the default one on first
// read like the original lobby did.
func (s *GameService) GetProfile(c *fiber.Ctx) error {
	profile := models.OperatorProfile{Nickname: "Operator"}
	if !s.KV.Get(models.StorageKeyOperatorProfile, &profile) {
		s.KV.Set(models.StorageKeyOperatorProfile, profile)
	}
	return c.JSON(profile)
}

func (s *GameService) UpdateProfile(c *fiber.Ctx) error {
	var profile models.OperatorProfile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(profile.Nickname) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nickname is required"})
	}
	if !s.KV.Set(models.StorageKeyOperatorProfile, profile) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save profile"})
	}
	return c.JSON(profile)
}
