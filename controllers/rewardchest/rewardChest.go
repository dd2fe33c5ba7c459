package rewardChestController

import (
	"github.com/gofiber/fiber/v2"

	"betcore/database"
	"betcore/middleware"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// ListChests returns the user's three chests with eligibility flags
func ListChests(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	chests, err := ledgerService.Engine().Chests(userId)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chests fetched!", fiber.Map{
		"chests": chests,
	})
}

// OpenChest opens one chest and credits its bonus
func OpenChest(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	chestNumber, err := c.ParamsInt("number")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chest number!", nil)
	}

	txn, err := ledgerService.Engine().OpenChest(userId, chestNumber)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	balance, _ := ledgerService.Engine().GetBalance(userId)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chest opened!", fiber.Map{
		"chestNumber":   chestNumber,
		"bonusAmount":   txn.Amount,
		"transactionId": txn.ID,
		"balance":       balance,
	})
}

// GetChestStats aggregates opened chests. Admin only.
func GetChestStats(c *fiber.Ctx) error {
	type row struct {
		ChestNumber int   `json:"chestNumber"`
		Opened      int64 `json:"opened"`
		TotalPaid   int64 `json:"totalPaid"`
	}

	var rows []row
	if err := database.Database.Db.Model(&models.RewardChest{}).
		Select("chest_number, COUNT(*) as opened, COALESCE(SUM(bonus_amount), 0) as total_paid").
		Where("opened = true").
		Group("chest_number").
		Order("chest_number").
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chest stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chest stats fetched!", fiber.Map{
		"breakdown": rows,
	})
}
