package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

type EventRepo struct{ db *gorm.DB }

func NewEventRepo(db *gorm.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Save(ctx context.Context, e *domain.Event) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return errs.Database("failed to save event", err)
	}
	return nil
}

func (r *EventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Database(fmt.Sprintf("failed to find event by id %s", id), err)
	}
	return &e, nil
}

func (r *EventRepo) FindAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := r.db.WithContext(ctx).Order("created_at").Find(&events).Error; err != nil {
		return nil, errs.Database("failed to find all events", err)
	}
	return events, nil
}

func (r *EventRepo) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Find(&events).Error
	if err != nil {
		return nil, errs.Database("failed to find events by user", err)
	}
	return events, nil
}
