package withdrawalRoutes

import (
	withdrawalController "betcore/controllers/withdrawal"
	"betcore/middleware"
	withdrawalValidator "betcore/validators/withdrawal"

	"github.com/gofiber/fiber/v2"
)

func SetupWithdrawalRoutes(app *fiber.App) {
	withdrawalGroup := app.Group("/withdrawals")

	// User routes
	withdrawalGroup.Post("/", middleware.JWTMiddleware, withdrawalValidator.Withdrawal(), withdrawalController.RequestWithdrawal)
	withdrawalGroup.Post("/:id/cancel", middleware.JWTMiddleware, withdrawalController.CancelWithdrawal)

	// Admin routes
	adminGroup := withdrawalGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Post("/:id/approve", withdrawalController.ApproveWithdrawal)
	adminGroup.Post("/:id/reject", withdrawalController.RejectWithdrawal)
	adminGroup.Post("/:id/complete", withdrawalController.CompleteWithdrawal)
}
