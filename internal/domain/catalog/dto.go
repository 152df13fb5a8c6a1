package catalog

import (
	"techrent/internal/domain/rental"
	"techrent/internal/pkg/format"
)

type EquipmentFilter struct {
	CategoryID int64
	Search     string
	SortBy     string // price, model or newest
	SortOrder  string
	// IncludeUnavailable lists items switched off by an admin too.
	IncludeUnavailable bool
	Page               int
	Limit              int
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

type EquipmentRequest struct {
	CategoryID  int64        `json:"category_id" binding:"required,gt=0"`
	Type        string       `json:"type" binding:"required,max=100"`
	Model       string       `json:"model" binding:"required,max=200"`
	Description string       `json:"description" binding:"max=5000"`
	ImageURL    string       `json:"image_url" binding:"omitempty,url"`
	DailyRate   rental.Money `json:"daily_rate" binding:"gte=0"`
	IsAvailable *bool        `json:"is_available"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// EquipmentView adds presentation fields to an item.
type EquipmentView struct {
	Equipment
	DailyRateDisplay string `json:"daily_rate_display"`
}

type EquipmentDetail struct {
	EquipmentView
	Similar []EquipmentView `json:"similar"`
}

type CategoryGroup struct {
	Category Category        `json:"category"`
	Items    []EquipmentView `json:"items"`
}

type EquipmentPage struct {
	Items []EquipmentView `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func toView(e Equipment) EquipmentView {
	return EquipmentView{Equipment: e, DailyRateDisplay: format.DailyRate(e.DailyRate)}
}

func toViews(items []Equipment) []EquipmentView {
	out := make([]EquipmentView, 0, len(items))
	for _, e := range items {
		out = append(out, toView(e))
	}
	return out
}
