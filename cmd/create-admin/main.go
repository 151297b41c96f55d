// Bootstrap script for the administrator account. The admin cannot
// self-register unless ADMIN_EMAIL matches, so this creates the first
// account out of band.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"journal-review-api/config"
	"journal-review-api/models"
	"journal-review-api/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.AdminEmail == "" {
		log.Fatal("ADMIN_EMAIL is not configured")
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is not configured")
	}

	db := config.InitDB(cfg)
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatal("Failed to migrate users table:", err)
	}

	var existing models.User
	if err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error; err == nil {
		log.Printf("Admin with email %s already exists, nothing to do", cfg.AdminEmail)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := models.User{
		Name:     "System Admin",
		Email:    cfg.AdminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Successfully created admin user %s", admin.Email)
}
