package gormstore

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shares struct {
	db *gorm.DB
}

func (r *Shares) Create(ctx context.Context, s *models.SharedDocument) error {
	return translate("create share", r.db.WithContext(ctx).Create(s).Error)
}

func (r *Shares) Get(ctx context.Context, id uuid.UUID) (*models.SharedDocument, error) {
	var s models.SharedDocument
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate("get share", err)
	}
	return &s, nil
}

func (r *Shares) GetByCode(ctx context.Context, code string) (*models.SharedDocument, error) {
	var s models.SharedDocument
	if err := r.db.WithContext(ctx).Where("share_code = ?", code).First(&s).Error; err != nil {
		return nil, translate("get share by code", err)
	}
	return &s, nil
}

func (r *Shares) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.SharedDocument, error) {
	out := []models.SharedDocument{}
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list shares", err)
	}
	return out, nil
}

func (r *Shares) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.SharedDocument{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return translate("revoke share", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Shares) IncrementAccess(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	result := r.db.WithContext(ctx).
		Raw("UPDATE shared_documents SET access_count = access_count + 1 WHERE id = ? RETURNING access_count", id).
		Scan(&count)
	if result.Error != nil {
		return 0, translate("record share access", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, store.ErrNotFound
	}
	return count, nil
}

type Consents struct {
	db *gorm.DB
}

func (r *Consents) Create(ctx context.Context, c *models.ConsentRequest) error {
	return translate("create consent request", r.db.WithContext(ctx).Create(c).Error)
}

func (r *Consents) Get(ctx context.Context, id uuid.UUID) (*models.ConsentRequest, error) {
	var c models.ConsentRequest
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate("get consent request", err)
	}
	return &c, nil
}

func (r *Consents) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.ConsentRequest, error) {
	out := []models.ConsentRequest{}
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("requested_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list consent requests", err)
	}
	return out, nil
}

func (r *Consents) ListPendingForOwner(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]models.ConsentRequest, error) {
	out := []models.ConsentRequest{}
	err := r.db.WithContext(ctx).
		Select("consent_requests.*").
		Joins("JOIN documents ON documents.id = consent_requests.document_id").
		Where("documents.owner_id = ? AND consent_requests.status = ? AND consent_requests.expires_at > ?",
			ownerID, models.ConsentPending, now).
		Order("consent_requests.requested_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list pending consent requests", err)
	}
	return out, nil
}

func (r *Consents) ListByRequester(ctx context.Context, requester string) ([]models.ConsentRequest, error) {
	out := []models.ConsentRequest{}
	err := r.db.WithContext(ctx).
		Where("requested_by = ?", requester).
		Order("requested_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list outgoing consent requests", err)
	}
	return out, nil
}

func (r *Consents) Resolve(ctx context.Context, id uuid.UUID, status models.ConsentStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ConsentRequest{}).
		Where("id = ? AND status = ?", id, models.ConsentPending).
		Updates(map[string]interface{}{"status": status, "response_at": at})
	if result.Error != nil {
		return translate("respond to consent request", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ConsentRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate("check consent request", err)
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

type Activities struct {
	db *gorm.DB
}

// Append inserts a and trims everything older than the newest keep rows in
// the same transaction.
func (r *Activities) Append(ctx context.Context, a *models.DocumentActivity, keep int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		if keep <= 0 {
			return nil
		}
		return tx.Exec(
			"DELETE FROM document_activities WHERE seq <= (SELECT seq FROM document_activities ORDER BY seq DESC OFFSET ? LIMIT 1)",
			keep,
		).Error
	})
	return translate("append activity", err)
}

func (r *Activities) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.DocumentActivity, error) {
	out := []models.DocumentActivity{}
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("seq ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list activity", err)
	}
	return out, nil
}

func (r *Activities) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.DocumentActivity{}).Count(&n).Error; err != nil {
		return 0, translate("count activity", err)
	}
	return n, nil
}
