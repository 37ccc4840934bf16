package models

import (
	"time"

	"github.com/google/uuid"
)

type ConsentStatus string

const (
	ConsentPending  ConsentStatus = "pending"
	ConsentApproved ConsentStatus = "approved"
	ConsentRejected ConsentStatus = "rejected"
)

type ConsentRequest struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"request_id"`
	DocumentID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"document_id"`
	RequestedBy     string        `gorm:"size:255;not null;index" json:"requested_by"`
	RequestedByName string        `gorm:"size:255;not null" json:"requested_by_name"`
	RequestedAt     time.Time     `gorm:"not null" json:"requested_at"`
	Status          ConsentStatus `gorm:"size:20;not null;index" json:"status"`
	ExpiresAt       time.Time     `gorm:"not null" json:"expires_at"`
	ResponseAt      *time.Time    `json:"response_at,omitempty"`
}
