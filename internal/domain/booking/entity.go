package booking

import (
	"time"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

// Booking is a request to rent one item for an inclusive range of days. Only Status and
// UpdatedAt change after creation.
type Booking struct {
	ID          string        `gorm:"column:id;primaryKey"`
	UserID      string        `gorm:"column:user_id;not null;index"`
	EquipmentID int64         `gorm:"column:equipment_id;not null;index"`
	StartDate   rental.Date   `gorm:"column:start_date;type:date;not null"`
	EndDate     rental.Date   `gorm:"column:end_date;type:date;not null"`
	Status      rental.Status `gorm:"column:status;not null;index"`
	TotalPrice  rental.Money  `gorm:"column:total_price_cents;not null"`
	Notes       string        `gorm:"column:notes;not null;default:''"`
	CreatedAt   time.Time     `gorm:"column:created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at"`

	Equipment *catalog.Equipment `gorm:"foreignKey:EquipmentID"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) Range() rental.DateRange {
	return rental.DateRange{Start: b.StartDate, End: b.EndDate}
}

// StatusEvent is one row of a booking's append-only status history. Creation is
// recorded with an empty FromStatus.
type StatusEvent struct {
	ID         int64         `gorm:"column:id;primaryKey" json:"id"`
	BookingID  string        `gorm:"column:booking_id;not null;index" json:"booking_id"`
	FromStatus rental.Status `gorm:"column:from_status;not null" json:"from_status"`
	ToStatus   rental.Status `gorm:"column:to_status;not null" json:"to_status"`
	ActorID    string        `gorm:"column:actor_id;not null" json:"actor_id"`
	CreatedAt  time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (StatusEvent) TableName() string { return "booking_status_events" }
