package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// serverError logs the internal detail and returns a generic message.
// Provider error bodies and stack traces never reach clients.
func serverError(c *gin.Context, detail string, err error) {
	log.Printf("%s: %v", detail, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
}
