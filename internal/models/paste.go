// Package models contains data structures for the application's domain models.
package models

import "time"

// Paste represents a stored text snippet with metadata.
type Paste struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Title    string  `json:"title"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Category string  `gorm:"index" json:"category"`
	Tags     TagList `gorm:"type:text" json:"tags"`
	Language string  `json:"language,omitempty"`
	// Date is the immutable ISO-8601 creation timestamp. Timestamps are
	// normalized to UTC RFC 3339, so lexicographic comparison orders them.
	Date    string `gorm:"not null;index" json:"date"`
	OwnerID string `gorm:"column:user_id;index" json:"user_id"`
	// Role is the owner's role snapshotted at creation time. Later role
	// changes do not reorder old pastes.
	Role   Role  `gorm:"type:text;default:user" json:"role"`
	Pinned bool  `gorm:"default:false" json:"pinned"`
	Views  int64 `gorm:"default:0" json:"views"`
	// Likes is denormalized from the likes table for fast sorting. Every
	// like mutation keeps it equal to the true row count.
	Likes     int64 `gorm:"default:0" json:"likes"`
	IsPrivate bool  `gorm:"default:false" json:"is_private"`
	// ExpiresAt is empty for pastes that never expire.
	ExpiresAt string `json:"expires_at,omitempty"`
}

const (
	// DefaultTitle is used when a paste is submitted without one.
	DefaultTitle = "Untitled"
	// DefaultCategory is used when a paste is submitted without one.
	DefaultCategory = "Uncategorized"
)

// Expired reports whether the paste's expiry timestamp is set and strictly
// before now. Unparseable timestamps never expire a paste.
func (p *Paste) Expired(now time.Time) bool {
	if p.ExpiresAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, p.ExpiresAt)
	if err != nil {
		return false
	}
	return t.Before(now)
}
