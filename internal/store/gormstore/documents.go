package gormstore

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Documents struct {
	db *gorm.DB
}

func (r *Documents) Create(ctx context.Context, d *models.Document) error {
	return translate("create document", r.db.WithContext(ctx).Create(d).Error)
}

func (r *Documents) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate("get document", err)
	}
	return &d, nil
}

func (r *Documents) GetByVerificationCode(ctx context.Context, code string) (*models.Document, error) {
	var d models.Document
	if err := r.db.WithContext(ctx).Where("verification_code = ?", code).First(&d).Error; err != nil {
		return nil, translate("get document by verification code", err)
	}
	return &d, nil
}

func (r *Documents) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Order("upload_date ASC").
		Find(&docs).Error
	if err != nil {
		return nil, translate("list documents", err)
	}
	return docs, nil
}

func (r *Documents) ListByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, category models.Category) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), inCategory(category)).
		Order("upload_date ASC").
		Find(&docs).Error
	if err != nil {
		return nil, translate("list documents by category", err)
	}
	return docs, nil
}

// Update is a compare-and-set on the version column.
func (r *Documents) Update(ctx context.Context, d *models.Document, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND version = ?", d.ID, expectedVersion).
		Updates(map[string]interface{}{
			"file_name":          d.FileName,
			"original_file_name": d.OriginalFileName,
			"file_type":          d.FileType,
			"file_size":          d.FileSize,
			"category":           d.Category,
			"status":             d.Status,
			"checksum":           d.Checksum,
			"digital_signature":  d.DigitalSignature,
			"tags":               d.Tags,
			"metadata":           d.Metadata,
			"content_key":        d.ContentKey,
			"verified_by":        d.VerifiedBy,
			"verified_at":        d.VerifiedAt,
			"review_comments":    d.ReviewComments,
			"version":            d.Version,
			"last_modified":      d.LastModified,
		})
	if result.Error != nil {
		return translate("update document", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", d.ID).Count(&count).Error; err != nil {
		return translate("check document", err)
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (r *Documents) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{})
	if result.Error != nil {
		return translate("delete document", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
