package model

import "time"

// User represents an account that can own events.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:128;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	PasswordHash string    `gorm:"size:256" json:"-"`
	Tags         TagList   `gorm:"type:text" json:"tags"`
	RoleID       *int64    `gorm:"index" json:"roleId,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	// Associations
	Role *Role `gorm:"constraint:OnDelete:SET NULL" json:"role,omitempty"`
}
