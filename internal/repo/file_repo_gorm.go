package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

type FileRepo struct{ db *gorm.DB }

func NewFileRepo(db *gorm.DB) *FileRepo { return &FileRepo{db: db} }

func (r *FileRepo) Save(ctx context.Context, f *domain.File) error {
	if err := r.db.WithContext(ctx).Save(f).Error; err != nil {
		return errs.Database("failed to save file", err)
	}
	return nil
}

func (r *FileRepo) FindByID(ctx context.Context, id string) (*domain.File, error) {
	var f domain.File
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Database(fmt.Sprintf("failed to find file by id %s", id), err)
	}
	return &f, nil
}

func (r *FileRepo) FindByLocation(ctx context.Context, location string) (*domain.File, error) {
	var f domain.File
	err := r.db.WithContext(ctx).First(&f, "location = ?", location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Database("failed to find file by location", err)
	}
	return &f, nil
}

func (r *FileRepo) FindAll(ctx context.Context) ([]domain.File, error) {
	var files []domain.File
	if err := r.db.WithContext(ctx).Order("created_at").Find(&files).Error; err != nil {
		return nil, errs.Database("failed to find all files", err)
	}
	return files, nil
}
