package service

import (
	"context"
	"fmt"

	"go-rest-secure-api/internal/domain"
)

type mockUserRepo struct {
	users map[string]*domain.User
	next  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*domain.User{}}
}

func (r *mockUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		r.next++
		u.ID = fmt.Sprintf("user-%d", r.next)
	}
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return fmt.Errorf("duplicate email: %s", u.Email)
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *mockUserRepo) Update(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type mockTokenRepo struct {
	tokens map[string]*domain.Token // keyed by value
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: map[string]*domain.Token{}}
}

func (r *mockTokenRepo) Save(_ context.Context, t *domain.Token) error {
	cp := *t
	r.tokens[t.Value] = &cp
	return nil
}

func (r *mockTokenRepo) FindValidByUserID(_ context.Context, userID string) ([]domain.Token, error) {
	var out []domain.Token
	for _, t := range r.tokens {
		if t.UserID == userID && (!t.Expired || !t.Revoked) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *mockTokenRepo) FindByValue(_ context.Context, value string) (*domain.Token, error) {
	t, ok := r.tokens[value]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

type mockFileRepo struct {
	files map[string]*domain.File
	next  int
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{files: map[string]*domain.File{}}
}

func (r *mockFileRepo) Save(_ context.Context, f *domain.File) error {
	if f.ID == "" {
		r.next++
		f.ID = fmt.Sprintf("file-%d", r.next)
	}
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *mockFileRepo) FindByID(_ context.Context, id string) (*domain.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *mockFileRepo) FindByLocation(_ context.Context, location string) (*domain.File, error) {
	for _, f := range r.files {
		if f.Location == location {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockFileRepo) FindAll(_ context.Context) ([]domain.File, error) {
	out := make([]domain.File, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, *f)
	}
	return out, nil
}

type mockEventRepo struct {
	events map[string]*domain.Event
	next   int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: map[string]*domain.Event{}}
}

func (r *mockEventRepo) Save(_ context.Context, e *domain.Event) error {
	if e.ID == "" {
		r.next++
		e.ID = fmt.Sprintf("event-%d", r.next)
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *mockEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *mockEventRepo) FindAll(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *mockEventRepo) FindActiveByUserID(_ context.Context, userID string) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		if e.UserID == userID && e.Status == domain.StatusActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

// mockStore 内存对象存储，location 形如 mem://bucket/key
type mockStore struct {
	objects map[string][]byte
	deleted []string
}

func newMockStore() *mockStore {
	return &mockStore{objects: map[string][]byte{}}
}

func objKey(bucket, key string) string { return bucket + "/" + key }

func (s *mockStore) Put(_ context.Context, bucket, key string, data []byte) (string, error) {
	s.objects[objKey(bucket, key)] = data
	return "mem://" + objKey(bucket, key), nil
}

func (s *mockStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	b, ok := s.objects[objKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("no such object: %s/%s", bucket, key)
	}
	return b, nil
}

func (s *mockStore) Copy(_ context.Context, srcBucket, srcKey, dstBucket, dstKey string) (string, error) {
	b, ok := s.objects[objKey(srcBucket, srcKey)]
	if !ok {
		return "", fmt.Errorf("no such object: %s/%s", srcBucket, srcKey)
	}
	s.objects[objKey(dstBucket, dstKey)] = b
	return "mem://" + objKey(dstBucket, dstKey), nil
}

func (s *mockStore) Delete(_ context.Context, bucket, key string) error {
	delete(s.objects, objKey(bucket, key))
	s.deleted = append(s.deleted, objKey(bucket, key))
	return nil
}
