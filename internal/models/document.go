package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category string

const (
	CategoryPersonal    Category = "personal"
	CategoryEducation   Category = "education"
	CategoryIdentity    Category = "identity"
	CategoryCertificate Category = "certificate"
	CategoryMarksheet   Category = "marksheet"
	CategoryOther       Category = "other"
)

var Categories = []Category{
	CategoryPersonal, CategoryEducation, CategoryIdentity,
	CategoryCertificate, CategoryMarksheet, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusVerified DocumentStatus = "verified"
	StatusExpired  DocumentStatus = "expired"
	StatusRejected DocumentStatus = "rejected"
)

var DocumentStatuses = []DocumentStatus{StatusPending, StatusVerified, StatusExpired, StatusRejected}

func (s DocumentStatus) Valid() bool {
	for _, v := range DocumentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Document is the metadata record of an uploaded file. Version is bumped on
// every successful update and guards concurrent writers.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	FileName         string         `gorm:"size:300;not null" json:"file_name"`
	OriginalFileName string         `gorm:"size:255;not null" json:"original_file_name"`
	FileType         string         `gorm:"size:100" json:"file_type"`
	FileSize         int64          `gorm:"not null" json:"file_size"`
	Category         Category       `gorm:"size:20;not null" json:"category"`
	Status           DocumentStatus `gorm:"size:20;not null" json:"status"`
	IsEncrypted      bool           `gorm:"not null" json:"is_encrypted"`
	VerificationCode string         `gorm:"size:32;not null;uniqueIndex" json:"verification_code"`
	Checksum         string         `gorm:"size:64" json:"checksum,omitempty"`
	DigitalSignature string         `gorm:"type:text" json:"digital_signature,omitempty"`
	Tags             datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Metadata         datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	ContentKey       string         `gorm:"size:512" json:"-"`
	VerifiedBy       *uuid.UUID     `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt       *time.Time     `json:"verified_date,omitempty"`
	ReviewComments   string         `gorm:"type:text" json:"comments,omitempty"`
	Version          int            `gorm:"not null" json:"version"`
	UploadDate       time.Time      `gorm:"not null" json:"upload_date"`
	LastModified     time.Time      `gorm:"not null" json:"last_modified"`
}

func (d *Document) HasContent() bool {
	return d.ContentKey != ""
}
