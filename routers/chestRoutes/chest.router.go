package chestRoutes

import (
	rewardChestController "betcore/controllers/rewardchest"
	"betcore/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupChestRoutes(app *fiber.App) {
	chestGroup := app.Group("/chests")

	chestGroup.Get("/", middleware.JWTMiddleware, rewardChestController.ListChests)
	chestGroup.Post("/:number<int>/open", middleware.JWTMiddleware, rewardChestController.OpenChest)

	adminGroup := chestGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/stats", rewardChestController.GetChestStats)
}
