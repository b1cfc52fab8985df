package service

import (
	"context"
	"time"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/pkg/utils"
)

// TokenLedger 已签发 token 的落库台账，吊销状态以它为准
type TokenLedger struct {
	tokens domain.TokenRepository
}

func NewTokenLedger(tokens domain.TokenRepository) *TokenLedger {
	return &TokenLedger{tokens: tokens}
}

// Save 每次保存都重算派生状态并盖时间戳
func (s *TokenLedger) Save(ctx context.Context, t *domain.Token) (*domain.Token, error) {
	now := time.Now()
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.TokenType = domain.TokenTypeBearer
	if t.Expired || t.Revoked {
		t.Status = domain.StatusDeleted
	} else {
		t.Status = domain.StatusActive
	}
	if err := s.tokens.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TokenLedger) FindValidByUserID(ctx context.Context, userID string) ([]domain.Token, error) {
	return s.tokens.FindValidByUserID(ctx, userID)
}

// RevokeAll 两个标志一起置位，新登录只留最新一个有效 token
func (s *TokenLedger) RevokeAll(ctx context.Context, userID string) error {
	valid, err := s.tokens.FindValidByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range valid {
		valid[i].Expired = true
		valid[i].Revoked = true
		if _, err := s.Save(ctx, &valid[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TokenLedger) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	t, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.NotFound("failed to find token")
	}
	return t, nil
}

// IsValid 过滤器用：查不到按无效处理，不报错
func (s *TokenLedger) IsValid(ctx context.Context, value string) (bool, error) {
	t, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	return !t.Expired && !t.Revoked, nil
}
