package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"betcore/config"
	"betcore/database"
	"betcore/models"
)

// Seeds the first ADMIN account. Run once after the initial migration:
//
//	ADMIN_USERNAME=ops ADMIN_EMAIL=ops@example.com ADMIN_PASSWORD=... go run ./scripts
func main() {
	config.LoadConfig()
	database.ConnectDb()

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		log.Fatal("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db := database.Database.Db

	var existing models.User
	if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		log.Printf("Admin %q already exists (id %d), nothing to do", existing.Username, existing.ID)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Username: username,
		Email:    email,
		Phone:    os.Getenv("ADMIN_PHONE"),
		CPF:      os.Getenv("ADMIN_CPF"),
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin %q created with id %d", admin.Username, admin.ID)
}
