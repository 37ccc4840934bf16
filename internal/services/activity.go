package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// activityRecorder appends to the system-wide activity ring.
type activityRecorder struct {
	activities store.Activities
}

func (r activityRecorder) record(ctx context.Context, at time.Time, documentID uuid.UUID, userID *uuid.UUID, action models.ActivityAction, details map[string]interface{}) error {
	a := &models.DocumentActivity{
		ID:         uuid.New(),
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		Timestamp:  at.UTC(),
	}
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode activity details: %w", err)
		}
		a.Details = datatypes.JSON(b)
	}
	if err := r.activities.Append(ctx, a, models.ActivityRingSize); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", action, err)
	}
	return nil
}

func userRef(id uuid.UUID) *uuid.UUID {
	return &id
}
