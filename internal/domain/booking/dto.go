package booking

import (
	"time"

	"techrent/internal/domain/rental"
	"techrent/internal/pkg/format"
)

type CreateRequest struct {
	EquipmentID int64        `json:"equipment_id" binding:"required,gt=0"`
	StartDate   *rental.Date `json:"start_date"`
	EndDate     *rental.Date `json:"end_date"`
	Notes       string       `json:"notes" binding:"max=1000"`
}

type ListFilter struct {
	Status rental.Status
	Search string
	Page   int
	Limit  int
}

type EquipmentSummary struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Model    string `json:"model"`
	ImageURL string `json:"image_url,omitempty"`
}

// View is a booking as shown to a given viewer: AllowedActions depends on who asks.
type View struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	EquipmentID       int64             `json:"equipment_id"`
	Equipment         *EquipmentSummary `json:"equipment,omitempty"`
	StartDate         rental.Date       `json:"start_date"`
	EndDate           rental.Date       `json:"end_date"`
	Days              int               `json:"days"`
	Status            rental.Status     `json:"status"`
	TotalPrice        rental.Money      `json:"total_price"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	AllowedActions    []rental.Action   `json:"allowed_actions"`
	StatusLabel       string            `json:"status_label"`
	TotalPriceDisplay string            `json:"total_price_display"`
	DatesDisplay      string            `json:"dates_display"`
	DaysDisplay       string            `json:"days_display"`
}

type Page struct {
	Items []View `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type QuoteView struct {
	EquipmentID  int64        `json:"equipment_id"`
	StartDate    rental.Date  `json:"start_date"`
	EndDate      rental.Date  `json:"end_date"`
	Days         int          `json:"days"`
	DailyRate    rental.Money `json:"daily_rate"`
	Total        rental.Money `json:"total"`
	TotalDisplay string       `json:"total_display"`
	// Bookable is false when the range is taken or the item is switched off.
	Bookable bool `json:"bookable"`
}

type AvailabilityView struct {
	EquipmentID  int64              `json:"equipment_id"`
	IsAvailable  bool               `json:"is_available"`
	From         rental.Date        `json:"from"`
	To           rental.Date        `json:"to"`
	Booked       []rental.DateRange `json:"booked"`
	BlockedDates []rental.Date      `json:"blocked_dates"`
}

func toView(b *Booking, viewer *rental.Actor) View {
	r := b.Range()
	v := View{
		ID:                b.ID,
		UserID:            b.UserID,
		EquipmentID:       b.EquipmentID,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Days:              r.Days(),
		Status:            b.Status,
		TotalPrice:        b.TotalPrice,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		AllowedActions:    rental.AllowedActions(b.Status, viewer, b.UserID),
		StatusLabel:       format.Status(b.Status),
		TotalPriceDisplay: format.Price(b.TotalPrice),
		DatesDisplay:      format.DateRange(r),
		DaysDisplay:       format.Days(r.Days()),
	}
	if b.Equipment != nil {
		v.Equipment = &EquipmentSummary{
			ID:       b.Equipment.ID,
			Type:     b.Equipment.Type,
			Model:    b.Equipment.Model,
			ImageURL: b.Equipment.ImageURL,
		}
	}
	return v
}

// eventView strips viewer-specific fields from a view that fans out to many recipients.
func eventView(v View) View {
	v.AllowedActions = []rental.Action{}
	return v
}

func toViews(items []Booking, viewer *rental.Actor) []View {
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, toView(&items[i], viewer))
	}
	return out
}
