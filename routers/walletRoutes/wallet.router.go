package walletRoutes

import (
	walletController "betcore/controllers/wallet"
	"betcore/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/balance", middleware.JWTMiddleware, walletController.GetBalance)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletController.GetHistory)

	// Admin routes
	adminGroup := walletGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/users/:userId/balance", walletController.GetUserBalance)
	adminGroup.Get("/users/:userId/history", walletController.GetUserHistory)
}
