package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-review-api/config"
	"journal-review-api/middleware"
	"journal-review-api/models"
	"journal-review-api/services"
	"journal-review-api/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userSummary is the public shape of a user in auth responses.
type userSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func summarize(user *models.User) userSummary {
	return userSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

// AuthController handles registration, login and user lookups.
type AuthController struct {
	db     *gorm.DB
	tokens *services.TokenService
	cfg    *config.Config
}

func NewAuthController(db *gorm.DB, tokens *services.TokenService, cfg *config.Config) *AuthController {
	return &AuthController{db: db, tokens: tokens, cfg: cfg}
}

// Register creates a whitelisted user. The role comes from configuration
// matching only; a role supplied by the client is ignored.
func (a *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please provide name, email and password"})
		return
	}

	role, err := services.RoleForEmail(req.Email, a.cfg.AdminEmail, a.cfg.ReviewerEmails)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Access Denied. Only invited reviewers and administrators can register.",
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, "Failed to look up user", err)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(c, "Failed to hash password", err)
		return
	}

	user := models.User{
		Name:     utils.SanitizeInput(req.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := a.db.Create(&user).Error; err != nil {
		serverError(c, "Failed to create user", err)
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		serverError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    summarize(&user),
	})
}

// Login authenticates by email and password.
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please provide an email and password"})
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		serverError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    summarize(&user),
	})
}

// Me returns the authenticated user's profile, password excluded.
func (a *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication context missing"})
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GetReviewers lists reviewer accounts (id, name, email only).
func (a *AuthController) GetReviewers(c *gin.Context) {
	var reviewers []userSummary
	if err := a.db.Model(&models.User{}).
		Select("id, name, email, role").
		Where("role = ?", models.RoleReviewer).
		Scan(&reviewers).Error; err != nil {
		serverError(c, "Failed to list reviewers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviewers})
}
