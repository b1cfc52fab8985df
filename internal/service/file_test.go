package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go-rest-secure-api/internal/core/cache"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

// 指向不可达地址，缓存 miss 后直接回源
func newTestCache() *cache.Cache { return cache.New("127.0.0.1:1", "", 0) }

func newFileFixture() (*FileService, *mockFileRepo, *mockStore) {
	files := newMockFileRepo()
	store := newMockStore()
	return NewFileService(files, store, "bucket", newTestCache()), files, store
}

func TestUploadStoresObjectAndMetadata(t *testing.T) {
	ctx := context.Background()
	svc, files, store := newFileFixture()

	f, err := svc.Upload(ctx, "report.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if f.Status != domain.StatusActive {
		t.Errorf("status = %q, want ACTIVE", f.Status)
	}
	if !strings.HasSuffix(f.S3Key, "_report.pdf") {
		t.Errorf("key = %q, want uuid_name form", f.S3Key)
	}
	if f.Location == "" || f.S3Bucket != "bucket" {
		t.Errorf("bad metadata: %+v", f)
	}

	stored, _ := store.Get(ctx, "bucket", f.S3Key)
	if !bytes.Equal(stored, []byte("content")) {
		t.Error("object content mismatch")
	}
	if meta, _ := files.FindByID(ctx, f.ID); meta == nil {
		t.Error("metadata not persisted")
	}
}

func TestDownloadByLocation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFileFixture()

	f, err := svc.Upload(ctx, "a.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	data, err := svc.Download(ctx, f.Location)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q", data)
	}

	if _, err := svc.Download(ctx, "mem://bucket/absent"); !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("absent: err = %v, want NotFound", err)
	}
}

func TestDownloadDeletedFileHidden(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFileFixture()

	f, err := svc.Upload(ctx, "a.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.DeleteByID(ctx, f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Download(ctx, f.Location); !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestRenameCopiesThenDeletesOldObject(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newFileFixture()

	f, err := svc.Upload(ctx, "old.txt", []byte("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	oldKey := f.S3Key

	renamed, err := svc.Rename(ctx, f.ID, "new.txt")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "new.txt" || !strings.HasSuffix(renamed.S3Key, "_new.txt") {
		t.Errorf("rename metadata: %+v", renamed)
	}
	if renamed.Location == f.Location {
		t.Error("location should change on rename")
	}

	if _, err := store.Get(ctx, "bucket", oldKey); err == nil {
		t.Error("old object still present")
	}
	data, err := store.Get(ctx, "bucket", renamed.S3Key)
	if err != nil || !bytes.Equal(data, []byte("data")) {
		t.Errorf("new object missing or corrupt: %v", err)
	}
}

func TestUpdateContentKeepsKey(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newFileFixture()

	f, err := svc.Upload(ctx, "a.txt", []byte("v1"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	updated, err := svc.UpdateContent(ctx, f.ID, []byte("v2"))
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.S3Key != f.S3Key || updated.Location != f.Location {
		t.Error("key/location should not change")
	}
	data, _ := store.Get(ctx, "bucket", f.S3Key)
	if string(data) != "v2" {
		t.Errorf("content = %q, want v2", data)
	}
}

func TestGenericUpdateNotImplemented(t *testing.T) {
	svc, _, _ := newFileFixture()
	_, err := svc.Update(context.Background(), &domain.File{ID: "x"})
	if !errs.IsKind(err, errs.KindNotImplemented) {
		t.Fatalf("err = %v, want NotImplemented", err)
	}
}
