package models

import (
	"time"
)

// Journal lifecycle statuses. The status endpoint accepts any of the three
// values from any current value; reverting an approved or rejected
// submission back to pending is allowed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AllowedFileTypes lists the accepted manuscript attachment extensions.
var AllowedFileTypes = []string{"pdf", "doc", "docx"}

// JournalStatuses lists the valid lifecycle statuses.
var JournalStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// Journal is a manuscript submission record. The stored FileURL is the
// permanent reference returned by object storage; raw bytes behind it are
// private and only reachable through derived signed URLs.
type Journal struct {
	ID       uint     `gorm:"primaryKey;column:id" json:"id"`
	Title    string   `gorm:"column:title" json:"title"`
	Authors  []string `gorm:"column:authors;serializer:json" json:"authors"`
	Abstract string   `gorm:"column:abstract;type:text" json:"abstract"`
	Keywords []string `gorm:"column:keywords;serializer:json" json:"keywords"`

	JournalName     string    `gorm:"column:journal_name" json:"journal_name,omitempty"`
	ImpactFactor    string    `gorm:"column:impact_factor" json:"impact_factor,omitempty"`
	Description     string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Publisher       string    `gorm:"column:publisher" json:"publisher,omitempty"`
	Category        string    `gorm:"column:category" json:"category,omitempty"`
	ISSN            string    `gorm:"column:issn" json:"issn,omitempty"`
	PublicationDate time.Time `gorm:"column:publication_date" json:"publication_date"`

	FileURL      string `gorm:"column:file_url" json:"file_url"`
	FilePublicID string `gorm:"column:file_public_id" json:"file_public_id,omitempty"`
	FileType     string `gorm:"column:file_type" json:"file_type"`

	Status     string   `gorm:"column:status;default:pending" json:"status"`
	OpenAccess bool     `gorm:"column:open_access" json:"open_access"`
	// Column is refs: REFERENCES is a reserved word in MySQL.
	References []string `gorm:"column:refs;serializer:json" json:"references,omitempty"`
	Citations  int      `gorm:"column:citations" json:"citations"`

	ReviewedBy     *uint      `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComments string     `gorm:"column:review_comments;type:text" json:"review_comments,omitempty"`

	SubmittedBy *uint     `gorm:"column:submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Derived on read, never persisted.
	PreviewURL  string `gorm:"-" json:"preview_url,omitempty"`
	DownloadURL string `gorm:"-" json:"download_url,omitempty"`
}

// TableName overrides
func (Journal) TableName() string {
	return "journals"
}

// IsAllowedFileType reports whether ext is an accepted attachment extension.
func IsAllowedFileType(ext string) bool {
	for _, t := range AllowedFileTypes {
		if ext == t {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether status is one of the three lifecycle values.
func IsValidStatus(status string) bool {
	for _, s := range JournalStatuses {
		if status == s {
			return true
		}
	}
	return false
}
