// handlers/game.go
package handlers

import (
	"bounty-settlement-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	// Lobby
	app.Get("/games", gameService.GetAllGames)
	app.Get("/games/:id", gameService.GetGameByID)
	app.Post("/games", gameService.CreateGame)
	app.Get("/roster", gameService.GetDefaultRoster)
	app.Get("/profile", gameService.GetProfile)
	app.Put("/profile", gameService.UpdateProfile)

	// Players
	app.Get("/games/:id/players", gameService.GetGamePlayers)
	app.Post("/games/:id/players", gameService.AddPlayer)
	app.Post("/games/:id/players/batch", gameService.AddPlayers)

	// Bounty ledger
	app.Get("/games/:id/bounties", gameService.GetBountyRecords)
	app.Post("/games/:id/bounties", gameService.RecordBounty)
	app.Delete("/games/:id/bounties/:record_id", gameService.DeleteBountyRecord)
}
