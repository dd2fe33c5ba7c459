package walletController

import (
	"github.com/gofiber/fiber/v2"

	"betcore/database"
	"betcore/middleware"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// GetBalance returns the user's current spendable balance
func GetBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	balance, err := ledgerService.Engine().GetBalance(userId)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched!", fiber.Map{
		"balance":  balance,
		"currency": "BRL",
	})
}

// GetHistory returns the user's transaction history with filters
func GetHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	return transactionHistory(c, userId)
}

// GetUserBalance lets an admin look up any user's balance
func GetUserBalance(c *fiber.Ctx) error {
	targetId, err := c.ParamsInt("userId")
	if err != nil || targetId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	balance, err := ledgerService.Engine().GetBalance(uint(targetId))
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched!", fiber.Map{
		"userId":   targetId,
		"balance":  balance,
		"currency": "BRL",
	})
}

// GetUserHistory lets an admin page through any user's transactions
func GetUserHistory(c *fiber.Ctx) error {
	targetId, err := c.ParamsInt("userId")
	if err != nil || targetId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}
	return transactionHistory(c, uint(targetId))
}

func transactionHistory(c *fiber.Ctx, userId uint) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type")
	txnStatus := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Transaction{}).Where("user_id = ?", userId)
	if txnType != "" {
		query = query.Where("type = ?", txnType)
	}
	if txnStatus != "" {
		query = query.Where("status = ?", txnStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
