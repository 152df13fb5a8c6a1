package catalog

import "context"

type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CategoryNameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListEquipment(ctx context.Context, f EquipmentFilter) ([]Equipment, int64, error)
	Latest(ctx context.Context, limit int) ([]Equipment, error)
	Similar(ctx context.Context, e *Equipment, limit int) ([]Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*Equipment, error)
	CountEquipmentInCategory(ctx context.Context, categoryID int64) (int64, error)
	CreateEquipment(ctx context.Context, e *Equipment) error
	UpdateEquipment(ctx context.Context, e *Equipment) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	DeleteEquipment(ctx context.Context, id int64) error
	Counts(ctx context.Context) (Counts, error)
}

// BookingChecker tells whether any booking references an item. Such items cannot be deleted.
type BookingChecker interface {
	HasBookings(ctx context.Context, equipmentID int64) (bool, error)
}
