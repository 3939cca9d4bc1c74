// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents an account. Username uniqueness is case-insensitive; the
// stored case is preserved for display.
type User struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Role         Role         `gorm:"type:text;default:user" json:"role"`
	TOTPSecret   string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	Profile      *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// UserProfile is an optional 1:1 extension of User. Absence is valid; callers
// get a zero-value profile instead of an error.
type UserProfile struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	UserID   string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio      string    `json:"bio"`
	Avatar   string    `json:"avatar"`
	Theme    string    `json:"theme"`
	LastSeen time.Time `json:"last_seen"`
}

// SafeUser is the public projection of a User, with credentials stripped.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Safe returns the public projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
