package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

const (
	EventStatusProcessing = "processing"
	EventStatusPublished  = "published"
)

// PerspectiveSummaries holds one synthesized text per political viewpoint.
// Center is always present; left and right may be absent when no articles
// from that leaning contributed to the event.
type PerspectiveSummaries struct {
	Center string `json:"center"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Event is a canonical news happening clustering one or more articles.
// Status transitions processing -> published exactly once and never reverts.
// LastSummarizedAt advances monotonically whenever the summaries or global
// impact are regenerated; it is the version stamp the insight cache keys on.
type Event struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title string    `gorm:"not null;column:title" json:"title"`
	Slug  string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`

	PerspectiveSummaries datatypes.JSONType[PerspectiveSummaries] `gorm:"column:perspective_summaries" json:"perspective_summaries"`
	GlobalImpact         string                                   `gorm:"column:global_impact" json:"global_impact"`

	// Ordered for display; order is irrelevant for filtering.
	TopicIDs datatypes.JSONSlice[uuid.UUID] `gorm:"column:topic_ids" json:"topic_ids"`

	Embedding        pgvector.Vector `gorm:"type:vector(1536);column:embedding" json:"-"`
	EmbeddingVersion int             `gorm:"not null;default:1;column:embedding_version" json:"embedding_version"`

	Status           string    `gorm:"not null;default:'processing';index:idx_event_recency,priority:1;column:status" json:"status"`
	FirstPublishedAt time.Time `gorm:"not null;index:idx_event_recency,priority:2;column:first_published_at" json:"first_published_at"`
	LastSummarizedAt time.Time `gorm:"not null;column:last_summarized_at" json:"last_summarized_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Event) TableName() string { return "event" }

// HasTopic reports whether the event is tagged with the given topic.
func (e *Event) HasTopic(topicID uuid.UUID) bool {
	for _, id := range e.TopicIDs {
		if id == topicID {
			return true
		}
	}
	return false
}
