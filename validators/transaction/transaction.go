package transactionValidator

import (
	"github.com/gofiber/fiber/v2"

	"betcore/middleware"
	"betcore/models"
)

var transitionTargets = map[models.TransactionStatus]bool{
	models.TransactionStatusProcessing: true,
	models.TransactionStatusCompleted:  true,
	models.TransactionStatusFailed:     true,
	models.TransactionStatusCancelled:  true,
}

// Transition validates an admin status-change request
func Transition() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status models.TransactionStatus `json:"status"`
			Reason string                   `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if !transitionTargets[reqData.Status] {
			errors["status"] = "Status must be PROCESSING, COMPLETED, FAILED or CANCELLED!"
		}
		if reqData.Reason == "" {
			errors["reason"] = "A reason is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransition", reqData)
		return c.Next()
	}
}
