package repository

import (
	"errors"
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(token *model.PersonalAccessToken) error
	FindByID(id uuid.UUID) (*model.PersonalAccessToken, error)
	Touch(id uuid.UUID, at time.Time) error
	Delete(id uuid.UUID) error
	DeleteByUser(userID uint) (int64, error)
	PurgeExpired(now time.Time) (int64, error)
}

type tokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) TokenRepository {
	return &tokenRepo{db}
}

func (r *tokenRepo) Create(token *model.PersonalAccessToken) error {
	return r.db.Create(token).Error
}

func (r *tokenRepo) FindByID(id uuid.UUID) (*model.PersonalAccessToken, error) {
	var token model.PersonalAccessToken
	if err := r.db.Preload("User").First(&token, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepo) Touch(id uuid.UUID, at time.Time) error {
	return r.db.Model(&model.PersonalAccessToken{}).Where("id = ?", id).Update("last_used_at", at).Error
}

func (r *tokenRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.PersonalAccessToken{}, "id = ?", id).Error
}

func (r *tokenRepo) DeleteByUser(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&model.PersonalAccessToken{})
	return res.RowsAffected, res.Error
}

func (r *tokenRepo) PurgeExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&model.PersonalAccessToken{})
	return res.RowsAffected, res.Error
}
