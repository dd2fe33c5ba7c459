package transactionRoutes

import (
	transactionController "betcore/controllers/transaction"
	"betcore/middleware"
	transactionValidator "betcore/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupTransactionRoutes(app *fiber.App) {
	txGroup := app.Group("/transactions")

	adminGroup := txGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/", transactionController.ListAllTransactions)
	adminGroup.Get("/stats", transactionController.GetStats)
	adminGroup.Post("/:id/transition", transactionValidator.Transition(), transactionController.TransitionTransaction)

	// Registered after the admin group so "admin" is not captured as an id
	txGroup.Get("/:id<int>", middleware.JWTMiddleware, transactionController.GetTransaction)
}
