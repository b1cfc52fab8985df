package service

import (
	"context"
	"fmt"
	"time"

	"go-rest-secure-api/internal/core/cache"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/internal/storage"
	"go-rest-secure-api/pkg/utils"
)

const fileMetaTTL = 5 * time.Minute

type FileService struct {
	files  domain.FileRepository
	store  storage.ObjectStore
	bucket string
	cache  *cache.Cache
}

func NewFileService(files domain.FileRepository, store storage.ObjectStore, bucket string, c *cache.Cache) *FileService {
	return &FileService{files: files, store: store, bucket: bucket, cache: c}
}

func (s *FileService) Upload(ctx context.Context, name string, data []byte) (*domain.File, error) {
	key := fmt.Sprintf("%s_%s", utils.NewID(), name)
	url, err := s.store.Put(ctx, s.bucket, key, data)
	if err != nil {
		return nil, errs.Wrap(errs.KindBadRequest, "failed to upload file to object storage", err)
	}
	f := &domain.File{
		ID:       utils.NewID(),
		Name:     name,
		S3Key:    key,
		S3Bucket: s.bucket,
		Location: url,
		Status:   domain.StatusActive,
	}
	if err := s.files.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Download 元数据走 redis 缓存（对象本体和 token/身份从不缓存）
func (s *FileService) Download(ctx context.Context, location string) ([]byte, error) {
	f, err := cache.GetOrLoadJSON[domain.File](s.cache, ctx, metaKey(location), fileMetaTTL,
		func(ctx context.Context) (*domain.File, error) {
			return s.files.FindByLocation(ctx, location)
		})
	if err != nil {
		return nil, err
	}
	if f == nil || f.Status != domain.StatusActive {
		return nil, errs.NotFound("file not found: " + location)
	}
	data, err := s.store.Get(ctx, f.S3Bucket, f.S3Key)
	if err != nil {
		return nil, errs.Wrap(errs.KindBadRequest, "failed to download file from object storage", err)
	}
	return data, nil
}

// Rename 对象拷贝到新 key 再删旧的，location 随之变化
func (s *FileService) Rename(ctx context.Context, id, newName string) (*domain.File, error) {
	f, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	newKey := fmt.Sprintf("%s_%s", utils.NewID(), newName)
	url, err := s.store.Copy(ctx, f.S3Bucket, f.S3Key, f.S3Bucket, newKey)
	if err != nil {
		return nil, errs.Wrap(errs.KindBadRequest, "failed to copy object", err)
	}
	if err := s.store.Delete(ctx, f.S3Bucket, f.S3Key); err != nil {
		return nil, errs.Wrap(errs.KindBadRequest, "failed to delete old object", err)
	}
	s.cache.Invalidate(ctx, metaKey(f.Location))

	f.Name = newName
	f.S3Key = newKey
	f.Location = url
	if err := s.files.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FileService) UpdateContent(ctx context.Context, id string, data []byte) (*domain.File, error) {
	f, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, f.S3Bucket, f.S3Key, data); err != nil {
		return nil, errs.Wrap(errs.KindBadRequest, "failed to upload file to object storage", err)
	}
	f.UpdatedAt = time.Now()
	if err := s.files.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update 二进制内容不走通用更新模型
func (s *FileService) Update(ctx context.Context, _ *domain.File) (*domain.File, error) {
	return nil, errs.NotImplemented("update")
}

func (s *FileService) FindByID(ctx context.Context, id string) (*domain.File, error) {
	return s.mustFind(ctx, id)
}

func (s *FileService) FindAll(ctx context.Context) ([]domain.File, error) {
	return s.files.FindAll(ctx)
}

func (s *FileService) DeleteByID(ctx context.Context, id string) error {
	f, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	f.Status = domain.StatusDeleted
	s.cache.Invalidate(ctx, metaKey(f.Location))
	return s.files.Save(ctx, f)
}

func (s *FileService) DeleteAll(ctx context.Context) error {
	all, err := s.files.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].Status != domain.StatusActive {
			continue
		}
		if err := s.DeleteByID(ctx, all[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileService) mustFind(ctx context.Context, id string) (*domain.File, error) {
	f, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errs.NotFound("file not found: " + id)
	}
	return f, nil
}

func metaKey(location string) string { return "file:meta:" + location }
