package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActionUpload   ActivityAction = "upload"
	ActionDownload ActivityAction = "download"
	ActionShare    ActivityAction = "share"
	ActionDelete   ActivityAction = "delete"
	ActionView     ActivityAction = "view"
	ActionVerify   ActivityAction = "verify"
)

// ActivityRingSize is how many activity entries are retained system-wide.
const ActivityRingSize = 100

type DocumentActivity struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Seq        int64          `gorm:"->" json:"-"`
	DocumentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	UserID     *uuid.UUID     `gorm:"type:uuid" json:"user_id,omitempty"`
	Action     ActivityAction `gorm:"size:20;not null" json:"action"`
	Timestamp  time.Time      `gorm:"not null" json:"timestamp"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
}
