package betValidator

import (
	"github.com/gofiber/fiber/v2"

	"betcore/middleware"
)

// Bet validates a bet placement request
func Bet() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount  int64  `json:"amount"`
			GameRef string `json:"gameRef"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.GameRef == "" {
			errors["gameRef"] = "Game reference is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBet", reqData)
		return c.Next()
	}
}

// Win validates a win credit request
func Win() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID  uint   `json:"userId"`
			Amount  int64  `json:"amount"`
			GameRef string `json:"gameRef"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.GameRef == "" {
			errors["gameRef"] = "Game reference is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWin", reqData)
		return c.Next()
	}
}
