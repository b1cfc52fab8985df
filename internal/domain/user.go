package domain

import (
	"context"
	"time"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	FirstName    string    `gorm:"size:64;not null" json:"firstName"`
	LastName     string    `gorm:"size:64;not null" json:"lastName"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null;column:password" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Status       Status    `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
}
