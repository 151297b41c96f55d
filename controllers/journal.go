package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"journal-review-api/middleware"
	"journal-review-api/models"
	"journal-review-api/services"
	"journal-review-api/utils"
)

const (
	storageFolder = "journals"
	signedURLTTL  = time.Hour
)

// ReviewerNotifier dispatches reviewer invitations for new submissions.
type ReviewerNotifier interface {
	NotifyReviewers(journalID uint) bool
}

// JournalController orchestrates the submission lifecycle: file upload,
// persistence, status transitions and derived file URLs.
type JournalController struct {
	store    *services.JournalStore
	storage  services.FileStorage
	notifier ReviewerNotifier
}

func NewJournalController(store *services.JournalStore, storage services.FileStorage, notifier ReviewerNotifier) *JournalController {
	return &JournalController{store: store, storage: storage, notifier: notifier}
}

type statusUpdateRequest struct {
	Status         string `json:"status"`
	ReviewComments string `json:"reviewComments"`
}

// Submit accepts a multipart submission: one file field plus metadata
// fields. The file is uploaded to object storage before anything is
// persisted; an upload failure leaves no record behind.
func (j *JournalController) Submit(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !models.IsAllowedFileType(ext) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid file type. Only PDF and Word documents are allowed",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		serverError(c, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serverError(c, "Failed to read uploaded file", err)
		return
	}

	uploaded, err := j.storage.Upload(c.Request.Context(), data, storageFolder, ext)
	if err != nil {
		log.Printf("Storage upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to upload file to cloud storage",
		})
		return
	}

	draft := j.draftFromForm(c)
	draft.FileURL = uploaded.URL
	draft.FilePublicID = uploaded.PublicID
	draft.FileType = ext

	journal, err := j.store.Create(draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Messages})
			return
		}
		serverError(c, "Failed to create journal", err)
		return
	}

	// Reviewer notification is decoupled from the submission outcome:
	// delivery failures terminate in the Notifier's log, never here.
	go j.notifier.NotifyReviewers(journal.ID)

	if journal.FileType == "pdf" {
		journal.PreviewURL = j.previewURL(journal.FilePublicID, 300, 400)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": journal})
}

func (j *JournalController) draftFromForm(c *gin.Context) *services.JournalDraft {
	draft := &services.JournalDraft{
		Title:        c.PostForm("title"),
		Authors:      utils.SplitList(c.PostForm("authors")),
		Abstract:     c.PostForm("abstract"),
		Keywords:     utils.SplitList(c.PostForm("keywords")),
		JournalName:  c.PostForm("journalName"),
		ImpactFactor: c.PostForm("impactFactor"),
		Description:  c.PostForm("description"),
		Publisher:    c.PostForm("publisher"),
		Category:     c.PostForm("category"),
		ISSN:         c.PostForm("issn"),
		OpenAccess:   c.PostForm("openAccess") == "true",
		References:   utils.SplitList(c.PostForm("references")),
	}

	if raw := c.PostForm("publicationDate"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			draft.PublicationDate = &parsed
		} else if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			draft.PublicationDate = &parsed
		}
	}

	if raw := c.PostForm("citations"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			draft.Citations = n
		}
	}

	// Anonymous submission is allowed; attribute only when a valid token
	// accompanied the request.
	if userID, ok := middleware.UserID(c); ok {
		draft.SubmittedBy = &userID
	}

	return draft
}

// List returns every submission, newest first, each pdf enriched with a
// small first-page preview URL.
func (j *JournalController) List(c *gin.Context) {
	journals, err := j.store.FindAll()
	if err != nil {
		serverError(c, "Failed to list journals", err)
		return
	}

	for i := range journals {
		if journals[i].FileType == "pdf" && journals[i].FilePublicID != "" {
			journals[i].PreviewURL = j.previewURL(journals[i].FilePublicID, 300, 400)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(journals),
		"data":    journals,
	})
}

// GetOne returns a single submission. The permanent file reference is
// replaced with a time-limited signed URL so the private file is never
// reachable through an unguarded link.
func (j *JournalController) GetOne(c *gin.Context) {
	journal, ok := j.findByParam(c)
	if !ok {
		return
	}

	if journal.FilePublicID != "" {
		journal.FileURL = j.storage.DeliveryURL(journal.FilePublicID, services.DeliveryOptions{
			Expiry: signedURLTTL,
		})
	}
	if journal.FileType == "pdf" && journal.FilePublicID != "" {
		journal.PreviewURL = j.previewURL(journal.FilePublicID, 600, 800)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": journal})
}

// GetForReview returns the reviewer-facing variant: a larger preview and a
// forced-download URL.
func (j *JournalController) GetForReview(c *gin.Context) {
	journal, ok := j.findByParam(c)
	if !ok {
		return
	}

	if journal.FilePublicID != "" {
		if journal.FileType == "pdf" {
			journal.PreviewURL = j.previewURL(journal.FilePublicID, 800, 1000)
		}
		journal.DownloadURL = j.storage.DeliveryURL(journal.FilePublicID, services.DeliveryOptions{
			Expiry:        signedURLTTL,
			ForceDownload: true,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": journal})
}

// UpdateStatus moves a submission between the three lifecycle values and
// records the acting reviewer.
func (j *JournalController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status value"})
		return
	}

	reviewerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication context missing"})
		return
	}

	journal, err := j.store.UpdateStatus(id, req.Status, reviewerID, req.ReviewComments)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status value"})
		case errors.Is(err, models.ErrJournalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Journal not found"})
		default:
			serverError(c, "Failed to update journal status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": journal})
}

// Stats returns zero-filled counts aggregated by status.
func (j *JournalController) Stats(c *gin.Context) {
	counts, err := j.store.CountByStatus()
	if err != nil {
		serverError(c, "Failed to aggregate journal stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
}

// Delete removes a submission. The stored file is deleted best-effort
// first; a storage failure is logged and the metadata record is removed
// anyway.
func (j *JournalController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	journal, err := j.store.FindByID(id)
	if err != nil {
		if errors.Is(err, models.ErrJournalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Journal not found"})
			return
		}
		serverError(c, "Failed to load journal", err)
		return
	}

	if journal.FilePublicID != "" {
		if err := j.storage.Delete(c.Request.Context(), journal.FilePublicID); err != nil {
			log.Printf("Error deleting file from storage for journal %d: %v", id, err)
		}
	}

	if err := j.store.Delete(id); err != nil {
		serverError(c, "Failed to delete journal", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Journal deleted successfully"})
}

func (j *JournalController) previewURL(publicID string, width, height int) string {
	// First page rendered as a fixed-size thumbnail; pure derivation,
	// never stored.
	return j.storage.DeliveryURL(publicID, services.DeliveryOptions{
		Width:  width,
		Height: height,
		Page:   1,
		Format: "jpg",
	})
}

func (j *JournalController) findByParam(c *gin.Context) (*models.Journal, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	journal, err := j.store.FindByID(id)
	if err != nil {
		if errors.Is(err, models.ErrJournalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Journal not found"})
			return nil, false
		}
		serverError(c, "Failed to load journal", err)
		return nil, false
	}
	return journal, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Journal not found"})
		return 0, false
	}
	return uint(id), true
}
