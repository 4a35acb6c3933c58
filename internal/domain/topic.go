package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is an immutable taxonomy leaf referenced by events for filtering.
// Rows are created by administrative seeding only.
type Topic struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	DisplayName string    `gorm:"not null;column:display_name" json:"display_name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }
