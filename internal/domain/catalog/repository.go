package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

/* ---------- categories ---------- */

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CategoryNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Category{}).
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) UpdateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Model(c).
		Select("name", "description").
		Updates(c).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Category{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

/* ---------- equipment ---------- */

func (r *Repository) ListEquipment(ctx context.Context, f EquipmentFilter) ([]Equipment, int64, error) {
	var items []Equipment
	var total int64

	q := r.db.WithContext(ctx).Model(&Equipment{})

	if !f.IncludeUnavailable {
		q = q.Where("is_available = ?", true)
	}
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(model) LIKE ? OR LOWER(type) LIKE ?)", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortOrder := strings.ToLower(strings.TrimSpace(f.SortOrder))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = ""
	}

	orderExpr := "created_at"
	defaultOrder := "desc"
	switch strings.ToLower(strings.TrimSpace(f.SortBy)) {
	case "price":
		orderExpr, defaultOrder = "daily_rate_cents", "asc"
	case "model":
		orderExpr, defaultOrder = "model", "asc"
	}
	if sortOrder == "" {
		sortOrder = defaultOrder
	}

	err := q.Preload("Category").
		Order(orderExpr + " " + sortOrder).
		Order("id " + sortOrder).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Latest returns the newest available items.
func (r *Repository) Latest(ctx context.Context, limit int) ([]Equipment, error) {
	var items []Equipment
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Similar returns other available items of the same category.
func (r *Repository) Similar(ctx context.Context, e *Equipment, limit int) ([]Equipment, error) {
	var items []Equipment
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_available = ?", e.CategoryID, e.ID, true).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *Repository) GetEquipment(ctx context.Context, id int64) (*Equipment, error) {
	var e Equipment
	err := r.db.WithContext(ctx).Preload("Category").First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) CountEquipmentInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Equipment{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *Repository) CreateEquipment(ctx context.Context, e *Equipment) error {
	return r.db.WithContext(ctx).Omit("Category").Create(e).Error
}

func (r *Repository) UpdateEquipment(ctx context.Context, e *Equipment) error {
	return r.db.WithContext(ctx).Model(e).
		Select("category_id", "type", "model", "description", "image_url", "daily_rate_cents", "is_available", "updated_at").
		Updates(e).Error
}

func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) error {
	tx := r.db.WithContext(ctx).Model(&Equipment{}).Where("id = ?", id).Update("is_available", available)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func (r *Repository) DeleteEquipment(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Equipment{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

type Counts struct {
	Categories         int64 `json:"categories"`
	Equipment          int64 `json:"equipment"`
	AvailableEquipment int64 `json:"available_equipment"`
}

func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := r.db.WithContext(ctx)
	if err := db.Model(&Category{}).Count(&c.Categories).Error; err != nil {
		return c, err
	}
	if err := db.Model(&Equipment{}).Count(&c.Equipment).Error; err != nil {
		return c, err
	}
	if err := db.Model(&Equipment{}).Where("is_available = ?", true).Count(&c.AvailableEquipment).Error; err != nil {
		return c, err
	}
	return c, nil
}
