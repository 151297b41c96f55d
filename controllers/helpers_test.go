package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal-review-api/config"
	"journal-review-api/controllers"
	"journal-review-api/models"
	"journal-review-api/routes"
	"journal-review-api/services"
	"journal-review-api/utils"
)

// fakeStorage satisfies services.FileStorage without network calls. URLs
// encode the requested options so assertions can see which variant a
// handler derived.
type fakeStorage struct {
	mu        sync.Mutex
	uploads   int
	uploadErr error
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, data []byte, folder, format string) (*services.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	publicID := fmt.Sprintf("%s/asset-%d", folder, f.uploads)
	return &services.UploadResult{
		PublicID: publicID,
		URL:      fmt.Sprintf("https://files.example.com/%s.%s", publicID, format),
	}, nil
}

func (f *fakeStorage) DeliveryURL(publicID string, opts services.DeliveryOptions) string {
	u := "https://files.example.com/" + publicID
	if opts.Format != "" {
		u += "." + opts.Format
	}
	var params []string
	if opts.Width > 0 {
		params = append(params, fmt.Sprintf("pg=%d&w=%d&h=%d", opts.Page, opts.Width, opts.Height))
	}
	if opts.Expiry > 0 {
		params = append(params, fmt.Sprintf("expires_in=%d", int(opts.Expiry.Seconds())))
	}
	if opts.ForceDownload {
		params = append(params, "attachment=1")
	}
	if len(params) > 0 {
		u += "?" + strings.Join(params, "&")
	}
	return u
}

func (f *fakeStorage) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeStorage) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

func (f *fakeStorage) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

// stubNotifier records dispatched journal ids on a channel so tests can
// wait for the asynchronous send.
type stubNotifier struct {
	notified chan uint
}

func (s *stubNotifier) NotifyReviewers(journalID uint) bool {
	s.notified <- journalID
	return true
}

type testAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	store    *services.JournalStore
	storage  *fakeStorage
	notified chan uint
	tokens   *services.TokenService
	cfg      *config.Config
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Journal{}))

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpireHours: 1,
		AdminEmail:     "admin@journal.org",
		ReviewerEmails: []string{"reviewer@journal.org", "second.reviewer@journal.org"},
		BaseURL:        "http://localhost:3000",
	}

	tokens := services.NewTokenService(cfg)
	storage := &fakeStorage{}
	store := services.NewJournalStore(db)
	notifier := &stubNotifier{notified: make(chan uint, 8)}

	router := gin.New()
	routes.SetupRoutes(router,
		controllers.NewAuthController(db, tokens, cfg),
		controllers.NewJournalController(store, storage, notifier),
		tokens)

	return &testAPI{
		router:   router,
		db:       db,
		store:    store,
		storage:  storage,
		notified: notifier.notified,
		tokens:   tokens,
		cfg:      cfg,
	}
}

// seedUser inserts a user directly and returns it with a session token.
func (api *testAPI) seedUser(t *testing.T, name, email, role string) (models.User, string) {
	t.Helper()
	hashed, err := utils.HashPassword("correct horse battery")
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: hashed, Role: role}
	require.NoError(t, api.db.Create(&user).Error)

	token, err := api.tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

// seedJournal persists a valid submission through the store.
func (api *testAPI) seedJournal(t *testing.T, fileType string) *models.Journal {
	t.Helper()
	journal, err := api.store.Create(&services.JournalDraft{
		Title:        "Deterministic Consensus under Partial Synchrony",
		Authors:      []string{"C. Researcher"},
		Abstract:     strings.Repeat("Detailed findings on the consensus protocol. ", 2),
		Keywords:     []string{"consensus"},
		FileURL:      "https://files.example.com/journals/seeded." + fileType,
		FilePublicID: "journals/seeded",
		FileType:     fileType,
	})
	require.NoError(t, err)
	return journal
}

func (api *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

// submit posts a multipart submission. An empty filename omits the file
// field entirely.
func (api *testAPI) submit(t *testing.T, token, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func validSubmissionFields() map[string]string {
	return map[string]string{
		"title":    "A Study of Signed URL Lifetimes",
		"authors":  "A. Author, B. Author",
		"abstract": strings.Repeat("An in-depth look at expiring access grants. ", 2),
		"keywords": "storage, security",
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}
