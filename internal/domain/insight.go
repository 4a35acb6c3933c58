package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InsightContent is the personalized payload produced by the text-generation
// collaborator for one (user, event) pair.
type InsightContent struct {
	PersonalImpact string `json:"personalImpact"`
	ActionableTip  string `json:"actionableTip"`
}

// UserInsight caches one generated insight per (user, event). The row is
// stale when EventLastUpdated trails the event's LastSummarizedAt or when
// ExpiresAt has passed; stale rows are regenerated, never served.
type UserInsight struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_insight_user_event,priority:1;column:user_id" json:"user_id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_insight_user_event,priority:2;column:event_id" json:"event_id"`

	Content datatypes.JSONType[InsightContent] `gorm:"column:content" json:"content"`

	// Copy of Event.LastSummarizedAt at generation time.
	EventLastUpdated time.Time  `gorm:"not null;column:event_last_updated" json:"event_last_updated"`
	GeneratedAt      time.Time  `gorm:"not null;column:generated_at" json:"generated_at"`
	ExpiresAt        time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
	LastNotifiedAt   *time.Time `gorm:"column:last_notified_at" json:"last_notified_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserInsight) TableName() string { return "user_insight" }

// Stale reports whether the cached content must be regenerated before being
// served, given the event's current summary stamp. A row is fresh strictly
// before ExpiresAt; at the boundary it is already stale.
func (ui *UserInsight) Stale(eventLastSummarizedAt, now time.Time) bool {
	return ui.EventLastUpdated.Before(eventLastSummarizedAt) || !now.Before(ui.ExpiresAt)
}
