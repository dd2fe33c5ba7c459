package withdrawalController

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"betcore/config"
	"betcore/database"
	"betcore/middleware"
	"betcore/models"
	gatewayService "betcore/services/gateway"
	ledgerService "betcore/services/ledger"
)

// RequestWithdrawal creates a withdrawal and reserves the funds. The amount
// leaves the spendable balance immediately; only a rejection or cancellation
// brings it back.
func RequestWithdrawal(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedWithdrawal").(*struct {
		Amount     int64  `json:"amount"`
		PixKey     string `json:"pixKey"`
		PixKeyType string `json:"pixKeyType"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	limits := ledgerService.Engine().Limits()
	if reqData.Amount < limits.MinWithdrawalAmount || reqData.Amount > limits.MaxWithdrawalAmount {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false,
			fmt.Sprintf("Withdrawal amount must be between %d and %d centavos!",
				limits.MinWithdrawalAmount, limits.MaxWithdrawalAmount), nil)
	}

	txn, err := ledgerService.Engine().CreateTransaction(ledgerService.CreateParams{
		UserID: userId,
		Type:   models.TransactionTypeWithdrawal,
		Amount: reqData.Amount,
		Method: models.PaymentMethodPix,
		Meta: models.TransactionMetadata{
			Source: "PIX_WITHDRAWAL",
			Pix: &models.PixDetails{
				Key:     reqData.PixKey,
				KeyType: reqData.PixKeyType,
			},
		},
	})
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Withdrawal requested!", fiber.Map{
		"transactionId": txn.ID,
		"amount":        txn.Amount,
		"status":        txn.Status,
	})
}

// CancelWithdrawal lets the owner cancel a still-PENDING withdrawal, which
// releases the reserved funds.
func CancelWithdrawal(c *fiber.Ctx) error {
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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal cancelled!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}

// ApproveWithdrawal moves a PENDING withdrawal to PROCESSING, sends the
// payout to the gateway and arms the auto-approval timer. An operator
// decision inside the window still wins over the timer.
func ApproveWithdrawal(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	var probe models.Transaction
	if err := database.Database.Db.First(&probe, txId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}
	if probe.Type != models.TransactionTypeWithdrawal {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Transaction is not a withdrawal!", nil)
	}

	actor := ledgerService.Actor{UserID: adminId, Role: models.RoleAdmin}
	txn, err := ledgerService.Engine().Transition(uint(txId), models.TransactionStatusProcessing, actor, "approved by operator")
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	var user models.User
	database.Database.Db.First(&user, txn.UserID)

	meta := txn.Meta()
	pix := gatewayService.PixKeyFor(meta.Pix, user.CPF)
	payoutRef := fmt.Sprintf("WD_%d", txn.ID)
	gatewayId, payoutErr := gatewayService.Get().CreatePayout(txn.Amount, pix, payoutRef)
	if payoutErr != nil {
		// Payout stays queued for a manual retry; the reservation holds.
		log.Printf("payout for withdrawal %d failed: %v", txn.ID, payoutErr)
	} else {
		meta.Gateway = &models.GatewayInfo{Provider: "pixgate", GatewayID: gatewayId}
		txn.SetMeta(meta)
		if err := database.Database.Db.Model(txn).Update("metadata", txn.Metadata).Error; err != nil {
			log.Printf("recording payout id on withdrawal %d: %v", txn.ID, err)
		}
	}

	delay := time.Duration(config.AppConfig.AutoApproveDelay) * time.Second
	ledgerService.Engine().ScheduleAutoApproval(txn.ID, delay)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal approved!", fiber.Map{
		"transactionId":  txn.ID,
		"status":         txn.Status,
		"autoCompleteIn": delay.String(),
	})
}

// RejectWithdrawal fails a withdrawal and refunds the reservation
func RejectWithdrawal(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	reason := c.Query("reason", "rejected by operator")

	actor := ledgerService.Actor{UserID: adminId, Role: models.RoleAdmin}
	txn, err := ledgerService.Engine().Transition(uint(txId), models.TransactionStatusFailed, actor, reason)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal rejected!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}

// CompleteWithdrawal settles a PROCESSING withdrawal ahead of the timer
func CompleteWithdrawal(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	actor := ledgerService.Actor{UserID: adminId, Role: models.RoleAdmin}
	txn, err := ledgerService.Engine().Transition(uint(txId), models.TransactionStatusCompleted, actor, "completed by operator")
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal completed!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}
