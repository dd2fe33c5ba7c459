package paymentRoutes

import (
	paymentController "betcore/controllers/payment"
	"betcore/middleware"
	paymentValidator "betcore/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments")

	paymentGroup.Post("/deposit", middleware.JWTMiddleware, paymentValidator.Deposit(), paymentController.GenerateDeposit)
	paymentGroup.Get("/deposit/:reference", middleware.JWTMiddleware, paymentController.GetDepositStatus)

	// Gateway callback, authenticated by the gateway's signature headers at
	// the edge, not by a user JWT
	paymentGroup.Post("/webhook", paymentController.GatewayWebhook)
}
