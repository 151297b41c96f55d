package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"journal-review-api/config"
	"journal-review-api/controllers"
	"journal-review-api/middleware"
	"journal-review-api/models"
	"journal-review-api/routes"
	"journal-review-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	db := config.InitDB(cfg)
	if err := db.AutoMigrate(&models.User{}, &models.Journal{}); err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

	tokens := services.NewTokenService(cfg)
	mailer := config.NewMailer(cfg)
	storage := services.NewCloudStorage(cfg)
	store := services.NewJournalStore(db)
	notifier := services.NewNotifier(mailer, tokens, cfg)

	auth := controllers.NewAuthController(db, tokens, cfg)
	journals := controllers.NewJournalController(store, storage, notifier)

	routes.SetupRoutes(router, auth, journals, tokens)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
