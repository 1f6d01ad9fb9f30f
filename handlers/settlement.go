// handlers/settlement.go
package handlers

import (
	"bounty-settlement-system/middleware"
	"bounty-settlement-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSettlementRoutes(app *fiber.App, settlementService *services.SettlementService) {
	// Opening a session is the hand-off from the game screen; everything after
	// requires the session token.
	app.Post("/games/:id/settlement/session", settlementService.OpenSession)

	session := app.Group("/settlement", middleware.SessionContextMiddleware(settlementService.Sessions))
	session.Get("/inputs", settlementService.GetInputs)
	session.Put("/inputs", settlementService.SaveInputs)
	session.Patch("/players/:player_id/score", settlementService.UpdatePlayerScore)
	session.Post("/preview", settlementService.PreviewSettlement)
	session.Post("/finish", settlementService.FinishSettlement)
}
