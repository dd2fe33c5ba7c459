package withdrawalValidator

import (
	"github.com/gofiber/fiber/v2"

	"betcore/middleware"
)

var pixKeyTypes = map[string]bool{
	"CPF":    true,
	"EMAIL":  true,
	"PHONE":  true,
	"RANDOM": true,
}

// Withdrawal validates a withdrawal request. Range limits against the
// configured minimum and maximum are enforced by the controller; this only
// checks shape.
func Withdrawal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount     int64  `json:"amount"`
			PixKey     string `json:"pixKey"`
			PixKeyType string `json:"pixKeyType"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.PixKey == "" {
			errors["pixKey"] = "PIX key is required!"
		}
		if !pixKeyTypes[reqData.PixKeyType] {
			errors["pixKeyType"] = "PIX key type must be CPF, EMAIL, PHONE or RANDOM!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWithdrawal", reqData)
		return c.Next()
	}
}
