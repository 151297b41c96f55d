package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-review-api/models"
)

const minAbstractLength = 50

// JournalDraft carries the client-supplied fields of a submission plus the
// file reference returned by object storage. Optional bibliographic fields
// stay empty when absent.
type JournalDraft struct {
	Title    string
	Authors  []string
	Abstract string
	Keywords []string

	JournalName     string
	ImpactFactor    string
	Description     string
	Publisher       string
	Category        string
	ISSN            string
	PublicationDate *time.Time

	FileURL      string
	FilePublicID string
	FileType     string

	OpenAccess bool
	References []string
	Citations  int

	SubmittedBy *uint
}

// JournalStore owns persistence of submissions. Schema invariants are
// enforced here at write time; other components never write journal rows
// directly.
type JournalStore struct {
	db *gorm.DB
}

func NewJournalStore(db *gorm.DB) *JournalStore {
	return &JournalStore{db: db}
}

// Create validates the draft and persists a new pending submission.
// Validation failures come back as a single *models.ValidationError
// carrying every field message.
func (s *JournalStore) Create(draft *JournalDraft) (*models.Journal, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now()
	publicationDate := now
	if draft.PublicationDate != nil {
		publicationDate = *draft.PublicationDate
	}

	journal := &models.Journal{
		Title:           strings.TrimSpace(draft.Title),
		Authors:         draft.Authors,
		Abstract:        strings.TrimSpace(draft.Abstract),
		Keywords:        draft.Keywords,
		JournalName:     strings.TrimSpace(draft.JournalName),
		ImpactFactor:    draft.ImpactFactor,
		Description:     draft.Description,
		Publisher:       strings.TrimSpace(draft.Publisher),
		Category:        strings.TrimSpace(draft.Category),
		ISSN:            strings.TrimSpace(draft.ISSN),
		PublicationDate: publicationDate,
		FileURL:         draft.FileURL,
		FilePublicID:    draft.FilePublicID,
		FileType:        draft.FileType,
		Status:          models.StatusPending,
		OpenAccess:      draft.OpenAccess,
		References:      draft.References,
		Citations:       draft.Citations,
		SubmittedBy:     draft.SubmittedBy,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}

	if err := s.db.Create(journal).Error; err != nil {
		return nil, err
	}
	return journal, nil
}

// FindByID returns one submission or models.ErrJournalNotFound.
func (s *JournalStore) FindByID(id uint) (*models.Journal, error) {
	var journal models.Journal
	if err := s.db.First(&journal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrJournalNotFound
		}
		return nil, err
	}
	return &journal, nil
}

// FindAll returns every submission, newest first by submission time.
func (s *JournalStore) FindAll() ([]models.Journal, error) {
	var journals []models.Journal
	if err := s.db.Order("submitted_at DESC").Find(&journals).Error; err != nil {
		return nil, err
	}
	return journals, nil
}

// UpdateStatus moves a submission to the given status and records the
// reviewer identity, timestamp and comments. Any of the three values is
// accepted from any current value; out-of-enum values leave the record
// untouched.
func (s *JournalStore) UpdateStatus(id uint, status string, reviewerID uint, comments string) (*models.Journal, error) {
	if !models.IsValidStatus(status) {
		verr := &models.ValidationError{}
		verr.Add("Invalid status value")
		return nil, verr
	}

	journal, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	journal.Status = status
	journal.ReviewedBy = &reviewerID
	journal.ReviewedAt = &now
	journal.ReviewComments = comments
	journal.UpdatedAt = now

	if err := s.db.Save(journal).Error; err != nil {
		return nil, err
	}
	return journal, nil
}

// Delete removes the metadata record. The externally stored file is the
// caller's concern.
func (s *JournalStore) Delete(id uint) error {
	result := s.db.Delete(&models.Journal{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrJournalNotFound
	}
	return nil
}

// StatusCounts aggregates submissions by lifecycle status.
type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// CountByStatus returns zero-filled counts, one query.
func (s *JournalStore) CountByStatus() (*StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Journal{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			counts.Pending = row.Count
		case models.StatusApproved:
			counts.Approved = row.Count
		case models.StatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

func validateDraft(draft *JournalDraft) error {
	verr := &models.ValidationError{}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		verr.Add("Please provide a title")
	} else if len(title) > 200 {
		verr.Add("Title cannot be more than 200 characters")
	}

	if len(draft.Authors) == 0 {
		verr.Add("Please provide at least one author")
	}

	abstract := strings.TrimSpace(draft.Abstract)
	if abstract == "" {
		verr.Add("Please provide an abstract")
	} else if len(abstract) < minAbstractLength {
		verr.Add("Abstract must be at least 50 characters")
	}

	if len(draft.Keywords) == 0 {
		verr.Add("Please provide at least one keyword")
	}

	if draft.FileURL == "" {
		verr.Add("File URL is required")
	}

	if !models.IsAllowedFileType(draft.FileType) {
		verr.Add("Invalid file type. Only PDF and Word documents are allowed")
	}

	return verr.OrNil()
}
