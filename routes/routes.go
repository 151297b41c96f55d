package routes

import (
	"github.com/gin-gonic/gin"

	"journal-review-api/controllers"
	"journal-review-api/middleware"
	"journal-review-api/models"
	"journal-review-api/services"
)

// SetupRoutes wires the HTTP surface. Reads of the journal list and of
// single records are public; review, status changes, stats and deletion
// are role-gated.
func SetupRoutes(
	router *gin.Engine,
	auth *controllers.AuthController,
	journals *controllers.JournalController,
	tokens *services.TokenService,
) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Journal Review API is running",
		})
	})

	// Authentication
	router.POST("/register", auth.Register)
	router.POST("/login", auth.Login)
	router.GET("/me", middleware.Authenticate(tokens), auth.Me)
	router.GET("/reviewers", middleware.Authenticate(tokens), auth.GetReviewers)

	// Submission is open to anonymous callers; a valid token only
	// attributes the submission.
	router.POST("/submit", middleware.OptionalAuthenticate(tokens), journals.Submit)

	// Public reads
	router.GET("/journals", journals.List)
	router.GET("/journals/:id", journals.GetOne)

	// Review workflow
	router.GET("/review/:id",
		middleware.Authenticate(tokens),
		middleware.RequireRole(models.RoleReviewer, models.RoleAdmin),
		journals.GetForReview)
	router.PUT("/:id/status",
		middleware.Authenticate(tokens),
		middleware.RequireRole(models.RoleReviewer, models.RoleAdmin),
		journals.UpdateStatus)

	router.GET("/stats", middleware.Authenticate(tokens), journals.Stats)

	router.DELETE("/:id",
		middleware.Authenticate(tokens),
		middleware.RequireRole(models.RoleAdmin),
		journals.Delete)
}
