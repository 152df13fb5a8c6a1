package auth

import (
	"time"

	"techrent/internal/domain/rental"
)

// User is a locally registered account. With the hosted identity provider the table
// stays empty and only user_roles is used.
type User struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"column:name;not null;default:''" json:"name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserRole maps a user id to a role. A missing row means a plain user.
type UserRole struct {
	UserID    string      `gorm:"column:user_id;primaryKey"`
	Role      rental.Role `gorm:"column:role;not null;default:user"`
	UpdatedAt time.Time   `gorm:"column:updated_at"`
}

func (UserRole) TableName() string { return "user_roles" }
