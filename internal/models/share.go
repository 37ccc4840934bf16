package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedDocument is a time-boxed grant. Revoked grants are kept with
// IsActive=false.
type SharedDocument struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"share_id"`
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	SharedWith  string    `gorm:"size:255;not null" json:"shared_with"`
	ShareCode   string    `gorm:"size:64;not null;uniqueIndex" json:"share_code"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	AccessCount int       `gorm:"not null" json:"access_count"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
}

// Usable reports whether the grant can still be redeemed at now.
func (s *SharedDocument) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
