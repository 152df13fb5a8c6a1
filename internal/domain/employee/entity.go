// Package employee is the informational staff directory.
package employee

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("employee not found")

type Employee struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Title     string    `gorm:"column:title;not null;default:''" json:"title"`
	Bio       string    `gorm:"column:bio;not null;default:''" json:"bio,omitempty"`
	Email     string    `gorm:"column:email;not null;default:''" json:"email,omitempty"`
	Phone     string    `gorm:"column:phone;not null;default:''" json:"phone,omitempty"`
	ImageURL  string    `gorm:"column:image_url;not null;default:''" json:"image_url"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

type Request struct {
	Name     string `json:"name" binding:"required,min=2,max=200"`
	Title    string `json:"title" binding:"max=200"`
	Bio      string `json:"bio" binding:"max=5000"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}
