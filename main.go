package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"betcore/config"
	"betcore/database"
	"betcore/models"
	authRoutes "betcore/routers/authRoutes"
	betRoutes "betcore/routers/betRoutes"
	chestRoutes "betcore/routers/chestRoutes"
	paymentRoutes "betcore/routers/paymentRoutes"
	transactionRoutes "betcore/routers/transactionRoutes"
	walletRoutes "betcore/routers/walletRoutes"
	withdrawalRoutes "betcore/routers/withdrawalRoutes"
	gatewayService "betcore/services/gateway"
	ledgerService "betcore/services/ledger"
	notifyService "betcore/services/notify"
	"betcore/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	gatewayService.Init()
	notifyService.Init()

	ledger := ledgerService.Init(database.Database.Db)
	ledger.AfterSettle = func(txn models.Transaction, user models.User) {
		notifyService.Get().Settled(txn, user)
	}

	sweeper := utils.StartPendingSweeper(ledger)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	walletRoutes.SetupWalletRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	withdrawalRoutes.SetupWithdrawalRoutes(app)
	betRoutes.SetupBetRoutes(app)
	transactionRoutes.SetupTransactionRoutes(app)
	chestRoutes.SetupChestRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		sweeper.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
		database.CloseDb()
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
