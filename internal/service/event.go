package service

import (
	"context"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/pkg/utils"
)

type EventService struct {
	events domain.EventRepository
	users  domain.UserRepository
	files  domain.FileRepository
}

func NewEventService(events domain.EventRepository, users domain.UserRepository, files domain.FileRepository) *EventService {
	return &EventService{events: events, users: users, files: files}
}

// Save 事件必须挂在已存在的用户和文件上
func (s *EventService) Save(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if err := s.checkRefs(ctx, e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = utils.NewID()
	}
	e.Status = domain.StatusActive
	if err := s.events.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	existing, err := s.mustFind(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, e); err != nil {
		return nil, err
	}
	if e.Name != "" {
		existing.Name = e.Name
	}
	existing.UserID = e.UserID
	existing.FileID = e.FileID
	if err := s.events.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *EventService) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.mustFind(ctx, id)
}

func (s *EventService) FindAll(ctx context.Context) ([]domain.Event, error) {
	return s.events.FindAll(ctx)
}

func (s *EventService) DeleteByID(ctx context.Context, id string) error {
	e, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	e.Status = domain.StatusDeleted
	return s.events.Save(ctx, e)
}

func (s *EventService) DeleteAll(ctx context.Context) error {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].Status != domain.StatusActive {
			continue
		}
		all[i].Status = domain.StatusDeleted
		if err := s.events.Save(ctx, &all[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventService) mustFind(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errs.NotFound("event not found: " + id)
	}
	return e, nil
}

func (s *EventService) checkRefs(ctx context.Context, e *domain.Event) error {
	u, err := s.users.FindByID(ctx, e.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return errs.NotFound("user not found: " + e.UserID)
	}
	f, err := s.files.FindByID(ctx, e.FileID)
	if err != nil {
		return err
	}
	if f == nil {
		return errs.NotFound("file not found: " + e.FileID)
	}
	return nil
}
