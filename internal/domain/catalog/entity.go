package catalog

import (
	"time"

	"techrent/internal/domain/rental"
)

type Category struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// Equipment is a rentable item. IsAvailable is the manual offering toggle and says
// nothing about bookings.
type Equipment struct {
	ID          int64        `gorm:"column:id;primaryKey" json:"id"`
	CategoryID  int64        `gorm:"column:category_id;not null;index" json:"category_id"`
	Type        string       `gorm:"column:type;not null" json:"type"`
	Model       string       `gorm:"column:model;not null" json:"model"`
	Description string       `gorm:"column:description;not null;default:''" json:"description"`
	ImageURL    string       `gorm:"column:image_url;not null;default:''" json:"image_url"`
	DailyRate   rental.Money `gorm:"column:daily_rate_cents;not null" json:"daily_rate"`
	IsAvailable bool         `gorm:"column:is_available;not null" json:"is_available"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Equipment) TableName() string { return "equipment" }

// Rental returns the fields booking validation works with.
func (e *Equipment) Rental() rental.Equipment {
	return rental.Equipment{ID: e.ID, DailyRate: e.DailyRate, IsAvailable: e.IsAvailable}
}
