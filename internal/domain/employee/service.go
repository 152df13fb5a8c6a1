package employee

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Store interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req Request) (*Employee, error) {
	now := s.now().UTC()
	e := &Employee{CreatedAt: now}
	apply(e, req, now)
	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, req Request) (*Employee, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(e, req, s.now().UTC())
	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func apply(e *Employee, req Request, now time.Time) {
	e.Name = strings.TrimSpace(req.Name)
	e.Title = strings.TrimSpace(req.Title)
	e.Bio = strings.TrimSpace(req.Bio)
	e.Email = strings.ToLower(strings.TrimSpace(req.Email))
	e.Phone = strings.TrimSpace(req.Phone)
	e.ImageURL = strings.TrimSpace(req.ImageURL)
	e.UpdatedAt = now
}
