package transactionController

import (
	"github.com/gofiber/fiber/v2"

	"betcore/database"
	"betcore/middleware"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// GetTransaction returns one transaction. Users see only their own; admins
// see any.
func GetTransaction(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	var txn models.Transaction
	if err := database.Database.Db.First(&txn, txId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	if txn.UserID != userId && role != string(models.RoleAdmin) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction fetched!", txn)
}

// ListAllTransactions pages through every transaction with filters. Admin only.
func ListAllTransactions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	txnType := c.Query("type")
	txnStatus := c.Query("status")
	targetUser := c.QueryInt("userId", 0)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&models.Transaction{})
	if txnType != "" {
		query = query.Where("type = ?", txnType)
	}
	if txnStatus != "" {
		query = query.Where("status = ?", txnStatus)
	}
	if targetUser > 0 {
		query = query.Where("user_id = ?", targetUser)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// TransitionTransaction drives a transaction through the state machine.
// Admin only; the engine still enforces legality and settles effects.
func TransitionTransaction(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	txId, err := c.ParamsInt("id")
	if err != nil || txId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	reqData, ok := c.Locals("validatedTransition").(*struct {
		Status models.TransactionStatus `json:"status"`
		Reason string                   `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	actor := ledgerService.Actor{UserID: adminId, Role: models.RoleAdmin}
	txn, err := ledgerService.Engine().Transition(uint(txId), reqData.Status, actor, reqData.Reason)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction updated!", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
	})
}

// GetStats aggregates transaction volume per type and status. Admin only.
func GetStats(c *fiber.Ctx) error {
	type row struct {
		Type   models.TransactionType   `json:"type"`
		Status models.TransactionStatus `json:"status"`
		Count  int64                    `json:"count"`
		Total  int64                    `json:"total"`
	}

	var rows []row
	if err := database.Database.Db.Model(&models.Transaction{}).
		Select("type, status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("type, status").
		Order("type, status").
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched!", fiber.Map{
		"breakdown": rows,
	})
}
