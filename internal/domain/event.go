package domain

import (
	"context"
	"time"
)

type Event struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	UserID    string    `gorm:"size:32;index;not null" json:"userId"`
	FileID    string    `gorm:"size:32;index;not null" json:"fileId"`
	Status    Status    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

type EventRepository interface {
	Save(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	FindAll(ctx context.Context) ([]Event, error)
	FindActiveByUserID(ctx context.Context, userID string) ([]Event, error)
}
