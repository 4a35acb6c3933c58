package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InteractionView         = "view"
	InteractionClickSource  = "click_source"
	InteractionBookmark     = "bookmark"
	InteractionDismiss      = "dismiss"
	InteractionShare        = "share"
	InteractionFeedbackBias = "feedback_bias"
)

type InteractionContext struct {
	BiasRating        float64 `json:"biasRating"`
	SourceReliability float64 `json:"sourceReliability"`
}

// InteractionMetadata is optional diagnostic data. Extras is an open bag
// with no invariants; downstream consumers treat it as untrusted.
type InteractionMetadata struct {
	TimeSpentSeconds      *int            `json:"timeSpentSeconds,omitempty"`
	ScrollDepthPercentage *float64        `json:"scrollDepthPercentage,omitempty"`
	DeviceType            *string         `json:"deviceType,omitempty"`
	Extras                json.RawMessage `json:"extras,omitempty"`
}

// Interaction is an append-only log row. Never updated or deleted by normal
// operation.
type Interaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	EventID   uuid.UUID  `gorm:"type:uuid;not null;column:event_id" json:"event_id"`
	ArticleID *uuid.UUID `gorm:"type:uuid;column:article_id" json:"article_id,omitempty"`

	Type     string                                  `gorm:"not null;column:type" json:"type"`
	Context  datatypes.JSONType[InteractionContext]  `gorm:"column:context" json:"context"`
	Metadata datatypes.JSONType[InteractionMetadata] `gorm:"column:metadata" json:"metadata"`

	Timestamp time.Time `gorm:"not null;column:timestamp" json:"timestamp"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Interaction) TableName() string { return "interaction" }

// ValidInteractionType reports whether t is one of the known log types.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionView, InteractionClickSource, InteractionBookmark,
		InteractionDismiss, InteractionShare, InteractionFeedbackBias:
		return true
	}
	return false
}
