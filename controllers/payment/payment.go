package paymentController

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"betcore/database"
	"betcore/middleware"
	"betcore/models"
	gatewayService "betcore/services/gateway"
	ledgerService "betcore/services/ledger"
)

// GenerateDeposit creates a PENDING PIX deposit and registers the charge at
// the gateway. The balance is not touched until the confirmation arrives.
func GenerateDeposit(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDeposit").(*struct {
		Amount int64 `json:"amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	uniq := strings.Split(uuid.NewString(), "-")[0]
	externalRef := gatewayService.NewExternalReference(userId, uniq)

	txn, err := ledgerService.Engine().CreateTransaction(ledgerService.CreateParams{
		UserID:            userId,
		Type:              models.TransactionTypeDeposit,
		Amount:            reqData.Amount,
		Method:            models.PaymentMethodPix,
		ExternalReference: &externalRef,
		Meta: models.TransactionMetadata{
			Source: "PIX_DEPOSIT",
		},
	})
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	charge, err := gatewayService.Get().CreateCharge(reqData.Amount, externalRef, user.Name, user.CPF)
	if err != nil {
		// The PENDING transaction stands; a late confirmation still
		// reconciles against it
		log.Printf("[GATEWAY] Charge for transaction %d failed: %v", txn.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable, try again later!", fiber.Map{
			"transactionId":     txn.ID,
			"externalReference": externalRef,
			"status":            txn.Status,
		})
	}

	meta := txn.Meta()
	meta.Gateway = &models.GatewayInfo{Provider: "pixgate", GatewayID: charge.GatewayID}
	txn.SetMeta(meta)
	if err := database.Database.Db.Model(txn).Update("metadata", txn.Metadata).Error; err != nil {
		log.Printf("[GATEWAY] Recording charge id on transaction %d failed: %v", txn.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Deposit generated!", fiber.Map{
		"transactionId":     txn.ID,
		"externalReference": externalRef,
		"amount":            txn.Amount,
		"status":            txn.Status,
		"qrCode":            charge.QRCode,
		"expiresAt":         charge.ExpiresAt,
	})
}

// GatewayWebhook receives payment confirmations. It is idempotent: replays
// and confirmations for already-settled charges return 200 so the gateway
// stops retrying.
func GatewayWebhook(c *fiber.Ctx) error {
	var payload gatewayService.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	if !payload.IsPaymentConfirmed() {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored!", nil)
	}

	txn, err := ledgerService.Engine().ResolveConfirmation(ledgerService.ConfirmationSignal{
		ExternalReference: payload.ExternalReference,
		GatewayID:         payload.GatewayID,
		Provider:          "pixgate",
		EndToEndID:        payload.EndToEndID,
		UserID:            payload.UserReference,
		Method:            models.PaymentMethodPix,
		PaidAmount:        payload.Amount,
		PaidAt:            payload.PaidTime(),
	})
	if errors.Is(err, ledgerService.ErrAlreadySettled) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Confirmation already processed!", fiber.Map{
			"transactionId": txn.ID,
		})
	}
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit confirmed!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}

// GetDepositStatus lets the client poll a deposit it created
func GetDepositStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	externalRef := c.Params("reference")

	var txn models.Transaction
	if err := database.Database.Db.
		Where("external_reference = ? AND user_id = ?", externalRef, userId).
		First(&txn).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit status fetched!", fiber.Map{
		"transactionId":     txn.ID,
		"externalReference": txn.ExternalReference,
		"amount":            txn.Amount,
		"status":            txn.Status,
		"completedAt":       txn.CompletedAt,
	})
}
