package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Save(ctx context.Context, t *domain.Token) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return errs.Database("failed to save token", err)
	}
	return nil
}

// FindValidByUserID 条件故意是 OR：expired 和 revoked 都为 true 才算出局
func (r *TokenRepo) FindValidByUserID(ctx context.Context, userID string) ([]domain.Token, error) {
	var tokens []domain.Token
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND (expired = ? OR revoked = ?)", userID, false, false).
		Find(&tokens).Error
	if err != nil {
		return nil, errs.Database("failed to find valid tokens", err)
	}
	return tokens, nil
}

func (r *TokenRepo) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.WithContext(ctx).First(&t, "token = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Database("failed to find token", err)
	}
	return &t, nil
}
