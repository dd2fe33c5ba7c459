package betRoutes

import (
	betController "betcore/controllers/bet"
	"betcore/middleware"
	betValidator "betcore/validators/bet"

	"github.com/gofiber/fiber/v2"
)

func SetupBetRoutes(app *fiber.App) {
	betGroup := app.Group("/bets")

	betGroup.Post("/", middleware.JWTMiddleware, betValidator.Bet(), betController.PlaceBet)
	betGroup.Post("/:id<int>/cancel", middleware.JWTMiddleware, betController.CancelBet)

	adminGroup := betGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Post("/win", betValidator.Win(), betController.CreditWin)
}
