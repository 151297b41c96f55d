package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal-review-api/models"
)

func setupStoreDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Journal{}))
	return db
}

func validDraft() *JournalDraft {
	return &JournalDraft{
		Title:    "Quantum Error Correction in Noisy Channels",
		Authors:  []string{"A. Author", "B. Author"},
		Abstract: strings.Repeat("A thorough study of the field. ", 3),
		Keywords: []string{"quantum", "error correction"},
		FileURL:  "https://files.example.com/journals/abc.pdf",
		FileType: "pdf",
	}
}

func TestCreatePersistsPendingSubmission(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	journal, err := store.Create(validDraft())
	require.NoError(t, err)

	assert.NotZero(t, journal.ID)
	assert.Equal(t, models.StatusPending, journal.Status)
	assert.Equal(t, []string{"A. Author", "B. Author"}, journal.Authors)
	assert.False(t, journal.SubmittedAt.IsZero())
	assert.False(t, journal.UpdatedAt.IsZero())
	assert.Nil(t, journal.SubmittedBy)
	assert.Nil(t, journal.ReviewedBy)

	stored, err := store.FindByID(journal.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.Title, stored.Title)
	assert.Equal(t, journal.Keywords, stored.Keywords)
}

func TestCreateAggregatesAllFieldErrors(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	_, err := store.Create(&JournalDraft{FileType: "exe"})
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Please provide a title")
	assert.Contains(t, verr.Messages, "Please provide at least one author")
	assert.Contains(t, verr.Messages, "Please provide an abstract")
	assert.Contains(t, verr.Messages, "Please provide at least one keyword")
	assert.Contains(t, verr.Messages, "File URL is required")
	assert.Contains(t, verr.Messages, "Invalid file type. Only PDF and Word documents are allowed")

	var count int64
	store.db.Model(&models.Journal{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateRejectsShortAbstractAndLongTitle(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	draft := validDraft()
	draft.Title = strings.Repeat("x", 201)
	draft.Abstract = "too short"

	_, err := store.Create(draft)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Title cannot be more than 200 characters")
	assert.Contains(t, verr.Messages, "Abstract must be at least 50 characters")
}

func TestFindAllNewestFirst(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	var ids []uint
	for i := 0; i < 3; i++ {
		draft := validDraft()
		journal, err := store.Create(draft)
		require.NoError(t, err)
		// Spread submission times so ordering is unambiguous.
		submittedAt := time.Now().Add(time.Duration(i-3) * time.Hour)
		require.NoError(t, store.db.Model(journal).Update("submitted_at", submittedAt).Error)
		ids = append(ids, journal.ID)
	}

	journals, err := store.FindAll()
	require.NoError(t, err)
	require.Len(t, journals, 3)
	assert.Equal(t, ids[2], journals[0].ID)
	assert.Equal(t, ids[1], journals[1].ID)
	assert.Equal(t, ids[0], journals[2].ID)
}

func TestFindByIDMissing(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	_, err := store.FindByID(999)
	assert.ErrorIs(t, err, models.ErrJournalNotFound)
}

func TestUpdateStatusRecordsReviewer(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	journal, err := store.Create(validDraft())
	require.NoError(t, err)

	updated, err := store.UpdateStatus(journal.ID, models.StatusApproved, 5, "solid methodology")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, uint(5), *updated.ReviewedBy)
	assert.NotNil(t, updated.ReviewedAt)
	assert.Equal(t, "solid methodology", updated.ReviewComments)
}

func TestUpdateStatusFreeTransitionGraph(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	journal, err := store.Create(validDraft())
	require.NoError(t, err)

	// approved -> rejected -> pending are all permitted.
	for _, status := range []string{models.StatusApproved, models.StatusRejected, models.StatusPending} {
		updated, err := store.UpdateStatus(journal.ID, status, 5, "")
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestUpdateStatusOutOfEnumLeavesRecordUntouched(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	journal, err := store.Create(validDraft())
	require.NoError(t, err)

	_, err = store.UpdateStatus(journal.ID, "archived", 5, "nope")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := store.FindByID(journal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.ReviewedBy)
	assert.Nil(t, stored.ReviewedAt)
	assert.Empty(t, stored.ReviewComments)
}

func TestUpdateStatusMissingJournal(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	_, err := store.UpdateStatus(404, models.StatusApproved, 5, "")
	assert.ErrorIs(t, err, models.ErrJournalNotFound)
}

func TestDeleteMissingJournal(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	err := store.Delete(404)
	assert.ErrorIs(t, err, models.ErrJournalNotFound)
}

func TestCountByStatusZeroFilled(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	counts, err := store.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, &StatusCounts{}, counts)
}

func TestCountByStatusAggregates(t *testing.T) {
	store := NewJournalStore(setupStoreDB(t))

	for i := 0; i < 3; i++ {
		_, err := store.Create(validDraft())
		require.NoError(t, err)
	}
	_, err := store.UpdateStatus(1, models.StatusApproved, 5, "")
	require.NoError(t, err)
	_, err = store.UpdateStatus(2, models.StatusRejected, 5, "")
	require.NoError(t, err)

	counts, err := store.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, int64(1), counts.Pending)
	assert.Equal(t, int64(1), counts.Approved)
	assert.Equal(t, int64(1), counts.Rejected)
}
