package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, hash string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type refreshTokenRepo struct {
	db *gorm.DB
}

func (r *refreshTokenRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(t).Error)
}

func (r *refreshTokenRepo) FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ? AND revoked = ?", hash, false).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *refreshTokenRepo) Revoke(ctx context.Context, hash string) error {
	return translate(r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error)
}

func (r *refreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error)
}
