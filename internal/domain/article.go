package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

const (
	ArticleStatusUnprocessed = "unprocessed"
	ArticleStatusClustered   = "clustered"
	ArticleStatusDiscarded   = "discarded"
)

// Article is one outlet's report of a happening. EventID is set if and only
// if Status is clustered; clustered and discarded are both terminal.
// CanonicalURL is globally unique, so re-ingesting the same canonical URL is
// an update-or-skip, never a duplicate insert.
type Article struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID  *uuid.UUID `gorm:"type:uuid;index;column:event_id" json:"event_id,omitempty"`
	SourceID uuid.UUID  `gorm:"type:uuid;not null;index;column:source_id" json:"source_id"`

	Title        string `gorm:"not null;column:title" json:"title"`
	URL          string `gorm:"not null;column:url" json:"url"`
	CanonicalURL string `gorm:"uniqueIndex;not null;column:canonical_url" json:"canonical_url"`
	Summary      string `gorm:"column:summary" json:"summary"`

	// Short fact strings fed to the event synthesizer instead of full bodies.
	AtomicFacts datatypes.JSONSlice[string] `gorm:"column:atomic_facts" json:"atomic_facts,omitempty"`

	AIBiasScore float64          `gorm:"column:ai_bias_score" json:"ai_bias_score"`
	Embedding   *pgvector.Vector `gorm:"type:vector(1536);column:embedding" json:"-"`

	Status      string    `gorm:"not null;default:'unprocessed';column:status" json:"status"`
	PublishedAt time.Time `gorm:"not null;column:published_at" json:"published_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Article) TableName() string { return "article" }
