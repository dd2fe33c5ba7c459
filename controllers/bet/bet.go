package betController

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"betcore/middleware"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// PlaceBet records a bet and settles its debit synchronously. A bet the
// balance cannot cover ends FAILED with no money moved.
func PlaceBet(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBet").(*struct {
		Amount  int64  `json:"amount"`
		GameRef string `json:"gameRef"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	engine := ledgerService.Engine()
	txn, err := engine.CreateTransaction(ledgerService.CreateParams{
		UserID: userId,
		Type:   models.TransactionTypeBet,
		Amount: reqData.Amount,
		Method: models.PaymentMethodSystem,
		Meta: models.TransactionMetadata{
			Source: "BET",
			Notes:  fmt.Sprintf("game %s", reqData.GameRef),
		},
	})
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	settled, err := engine.Transition(txn.ID, models.TransactionStatusCompleted,
		ledgerService.SystemActor, "bet placed")
	if err != nil {
		if errors.Is(err, ledgerService.ErrInsufficientFunds) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Insufficient balance!", fiber.Map{
				"transactionId": settled.ID,
				"status":        settled.Status,
			})
		}
		return middleware.LedgerErrorResponse(c, err)
	}

	balance, _ := engine.GetBalance(userId)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bet placed!", fiber.Map{
		"transactionId": settled.ID,
		"amount":        settled.Amount,
		"status":        settled.Status,
		"balance":       balance,
	})
}

// CancelBet cancels a bet that is still PENDING, which only happens when the
// synchronous settlement never ran. No money moved, so nothing is refunded.
func CancelBet(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	txn, err := ledgerService.Engine().Transition(uint(txId), models.TransactionStatusCancelled,
		ledgerService.Actor{UserID: userId, Role: models.UserRole(role)}, "cancelled by user")
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bet cancelled!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}

// CreditWin settles a WIN for a user. Admin only; game results reach the
// ledger through this operation.
func CreditWin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedWin").(*struct {
		UserID  uint   `json:"userId"`
		Amount  int64  `json:"amount"`
		GameRef string `json:"gameRef"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	engine := ledgerService.Engine()
	txn, err := engine.CreateTransaction(ledgerService.CreateParams{
		UserID: reqData.UserID,
		Type:   models.TransactionTypeWin,
		Amount: reqData.Amount,
		Method: models.PaymentMethodSystem,
		Meta: models.TransactionMetadata{
			Source: "GAME_WIN",
			Notes:  fmt.Sprintf("game %s", reqData.GameRef),
		},
	})
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	settled, err := engine.Transition(txn.ID, models.TransactionStatusCompleted,
		ledgerService.SystemActor, "win credited")
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Win credited!", fiber.Map{
		"transactionId": settled.ID,
		"userId":        reqData.UserID,
		"amount":        settled.Amount,
		"status":        settled.Status,
	})
}
