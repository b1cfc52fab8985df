package domain

import (
	"context"
	"time"
)

type File struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	S3Key     string    `gorm:"uniqueIndex;size:255;not null" json:"s3Key"`
	S3Bucket  string    `gorm:"size:128;not null" json:"s3Bucket"`
	Location  string    `gorm:"size:512;not null" json:"location"`
	Status    Status    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (File) TableName() string { return "files" }

type FileRepository interface {
	Save(ctx context.Context, f *File) error
	FindByID(ctx context.Context, id string) (*File, error)
	FindByLocation(ctx context.Context, location string) (*File, error)
	FindAll(ctx context.Context) ([]File, error)
}
