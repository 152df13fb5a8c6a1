package catalog

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrCategoryExists    = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category still has equipment")
	ErrEquipmentInUse    = errors.New("equipment has bookings")
	ErrInvalidRate       = errors.New("daily rate must not be negative")
)
