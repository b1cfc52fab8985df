package service

import (
	"context"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

type UserService struct {
	users  domain.UserRepository
	events domain.EventRepository
	files  domain.FileRepository
}

func NewUserService(users domain.UserRepository, events domain.EventRepository, files domain.FileRepository) *UserService {
	return &UserService{users: users, events: events, files: files}
}

// FindByID 行级可见性：持 read_write_delete:users 的可以看任何人，
// 其他人只能看自己的记录，且已软删的记录对本人也不可见
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyVisibility(ctx, u)
}

func (s *UserService) Update(ctx context.Context, in *domain.User) (*domain.User, error) {
	existing, err := s.mustFind(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != "" && in.FirstName != existing.FirstName {
		existing.FirstName = in.FirstName
	}
	if in.LastName != "" && in.LastName != existing.LastName {
		existing.LastName = in.LastName
	}
	if in.Email != "" && in.Email != existing.Email {
		existing.Email = in.Email
	}
	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// DeleteByID 软删，记录保留
func (s *UserService) DeleteByID(ctx context.Context, id string) error {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	u.Status = domain.StatusDeleted
	return s.users.Update(ctx, u)
}

func (s *UserService) DeleteAll(ctx context.Context) error {
	all, err := s.users.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].Status != domain.StatusActive {
			continue
		}
		all[i].Status = domain.StatusDeleted
		if err := s.users.Update(ctx, &all[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindFiles 用户 ACTIVE 事件关联的文件位置，可见性规则同 FindByID
func (s *UserService) FindFiles(ctx context.Context, id string) ([]domain.File, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.applyVisibility(ctx, u); err != nil {
		return nil, err
	}
	events, err := s.events.FindActiveByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	files := make([]domain.File, 0, len(events))
	for _, e := range events {
		f, err := s.files.FindByID(ctx, e.FileID)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		files = append(files, domain.File{Location: f.Location})
	}
	return files, nil
}

func (s *UserService) mustFind(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.NotFound("user not found: " + id)
	}
	return u, nil
}

func (s *UserService) applyVisibility(ctx context.Context, u *domain.User) (*domain.User, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if ok && p.Has(domain.PermReadWriteDeleteUser) {
		return u, nil
	}
	if u.Status == domain.StatusDeleted {
		return nil, errs.AccessDenied("access denied: user " + u.ID + " is deleted")
	}
	if !ok || p.Email != u.Email {
		return nil, errs.AccessDenied("access denied")
	}
	// 本人视图只回基本字段
	return &domain.User{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}, nil
}
