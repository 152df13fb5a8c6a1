package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	featuredCount = 2
	similarCount  = 3
	defaultLimit  = 20
	maxLimit      = 100
)

type Service struct {
	store    Store
	bookings BookingChecker
	now      func() time.Time
}

func NewService(store Store, bookings BookingChecker) *Service {
	return &Service{store: store, bookings: bookings, now: time.Now}
}

/* ---------- public ---------- */

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) Category(ctx context.Context, id int64) (*Category, error) {
	return s.store.GetCategory(ctx, id)
}

// List pages through equipment. Public callers only see available items.
func (s *Service) List(ctx context.Context, f EquipmentFilter) (*EquipmentPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	items, total, err := s.store.ListEquipment(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return &EquipmentPage{Items: toViews(items), Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Grouped returns available equipment grouped by category. Empty categories are left out.
func (s *Service) Grouped(ctx context.Context) ([]CategoryGroup, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, _, err := s.store.ListEquipment(ctx, EquipmentFilter{SortBy: "model", Page: 1, Limit: 10000})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]EquipmentView, len(categories))
	for _, e := range items {
		e.Category = nil
		byCategory[e.CategoryID] = append(byCategory[e.CategoryID], toView(e))
	}

	groups := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		if views := byCategory[c.ID]; len(views) > 0 {
			groups = append(groups, CategoryGroup{Category: c, Items: views})
		}
	}
	return groups, nil
}

func (s *Service) Featured(ctx context.Context) ([]EquipmentView, error) {
	items, err := s.store.Latest(ctx, featuredCount)
	if err != nil {
		return nil, err
	}
	return toViews(items), nil
}

// Detail returns an item with up to three available items of the same category.
func (s *Service) Detail(ctx context.Context, id int64) (*EquipmentDetail, error) {
	e, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	similar, err := s.store.Similar(ctx, e, similarCount)
	if err != nil {
		return nil, err
	}

	return &EquipmentDetail{EquipmentView: toView(*e), Similar: toViews(similar)}, nil
}

// Equipment loads one item, whatever its availability.
func (s *Service) Equipment(ctx context.Context, id int64) (*Equipment, error) {
	return s.store.GetEquipment(ctx, id)
}

/* ---------- admin: categories ---------- */

func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	c := &Category{Name: name, Description: strings.TrimSpace(req.Description), CreatedAt: s.now().UTC()}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (*Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	c.Name = name
	c.Description = strings.TrimSpace(req.Description)
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountEquipmentInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return s.store.DeleteCategory(ctx, id)
}

func (s *Service) ensureNameFree(ctx context.Context, name string, exceptID int64) error {
	taken, err := s.store.CategoryNameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCategoryExists
	}
	return nil
}

/* ---------- admin: equipment ---------- */

func (s *Service) AdminList(ctx context.Context, f EquipmentFilter) (*EquipmentPage, error) {
	f.IncludeUnavailable = true
	return s.List(ctx, f)
}

func (s *Service) CreateEquipment(ctx context.Context, req EquipmentRequest) (*Equipment, error) {
	if err := s.checkRequest(ctx, req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := &Equipment{CreatedAt: now}
	apply(e, req, now)
	if req.IsAvailable == nil {
		e.IsAvailable = true
	}

	if err := s.store.CreateEquipment(ctx, e); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return e, nil
}

func (s *Service) UpdateEquipment(ctx context.Context, id int64, req EquipmentRequest) (*Equipment, error) {
	e, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRequest(ctx, req); err != nil {
		return nil, err
	}

	apply(e, req, s.now().UTC())
	e.Category = nil
	if err := s.store.UpdateEquipment(ctx, e); err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return e, nil
}

func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*Equipment, error) {
	if err := s.store.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	return s.store.GetEquipment(ctx, id)
}

func (s *Service) DeleteEquipment(ctx context.Context, id int64) error {
	if _, err := s.store.GetEquipment(ctx, id); err != nil {
		return err
	}
	if s.bookings != nil {
		has, err := s.bookings.HasBookings(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return ErrEquipmentInUse
		}
	}
	return s.store.DeleteEquipment(ctx, id)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.store.Counts(ctx)
}

func (s *Service) checkRequest(ctx context.Context, req EquipmentRequest) error {
	if req.DailyRate < 0 {
		return ErrInvalidRate
	}
	_, err := s.store.GetCategory(ctx, req.CategoryID)
	return err
}

func apply(e *Equipment, req EquipmentRequest, now time.Time) {
	e.CategoryID = req.CategoryID
	e.Type = strings.TrimSpace(req.Type)
	e.Model = strings.TrimSpace(req.Model)
	e.Description = strings.TrimSpace(req.Description)
	e.ImageURL = strings.TrimSpace(req.ImageURL)
	e.DailyRate = req.DailyRate
	if req.IsAvailable != nil {
		e.IsAvailable = *req.IsAvailable
	}
	e.UpdatedAt = now
}
