package gormstore

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *Users) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &u, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, translate("get user by email", err)
	}
	return &u, nil
}

func (r *Users) FindActive(ctx context.Context, email string, role models.Role) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND role = ? AND is_active", email, role).
		First(&u).Error
	if err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

type RefreshTokens struct {
	db *gorm.DB
}

func (r *RefreshTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	return translate("store refresh token", r.db.WithContext(ctx).Create(t).Error)
}

func (r *RefreshTokens) GetActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", hash).First(&t).Error
	if err != nil {
		return nil, translate("get refresh token", err)
	}
	return &t, nil
}

func (r *RefreshTokens) Revoke(ctx context.Context, hash string) error {
	err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
	return translate("revoke refresh token", err)
}
