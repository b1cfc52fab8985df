package domain

import (
	"context"
	"time"
)

const TokenTypeBearer = "BEARER"

// Token 每次 login/refresh 落库一行，软生命周期，不做物理删除
type Token struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Value     string    `gorm:"uniqueIndex;size:512;not null;column:token" json:"token"`
	TokenType string    `gorm:"size:16;not null" json:"tokenType"`
	Expired   bool      `gorm:"not null" json:"expired"`
	Revoked   bool      `gorm:"not null" json:"revoked"`
	UserID    string    `gorm:"size:32;index;not null" json:"userId"`
	Status    Status    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Token) TableName() string { return "tokens" }

type TokenRepository interface {
	Save(ctx context.Context, t *Token) error
	// FindValidByUserID 注意：expired=false OR revoked=false（两个标志都置位才算出局）
	FindValidByUserID(ctx context.Context, userID string) ([]Token, error)
	FindByValue(ctx context.Context, value string) (*Token, error)
}
