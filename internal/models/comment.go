package models

import "time"

// Comment belongs to exactly one paste and is deleted with it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PasteID   string    `gorm:"not null;index" json:"paste_id"`
	Author    string    `json:"author"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Like relates one user to one paste. The (paste, user) pair is unique, which
// makes the toggle insert race-safe.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PasteID   string    `gorm:"not null;uniqueIndex:idx_paste_user" json:"paste_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_paste_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
