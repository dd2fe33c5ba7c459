package paymentValidator

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"betcore/config"
	"betcore/middleware"
)

// Deposit validates a PIX deposit generation request
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount int64 `json:"amount"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		} else if reqData.Amount < config.AppConfig.MinDepositAmount {
			errors["amount"] = fmt.Sprintf("Minimum deposit is %d centavos!", config.AppConfig.MinDepositAmount)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}
