package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is one publishing outlet. BaseBias is on the [-5, 5] scale
// (negative = left) and is the sole input to the bias normalizer.
// ReliabilityScore is on [1, 10].
type Source struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Domain           string    `gorm:"uniqueIndex;not null;column:domain" json:"domain"`
	Name             string    `gorm:"not null;column:name" json:"name"`
	BaseBias         float64   `gorm:"not null;column:base_bias" json:"base_bias"`
	ReliabilityScore float64   `gorm:"not null;column:reliability_score" json:"reliability_score"`
	LogoURL          string    `gorm:"column:logo_url" json:"logo_url"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Source) TableName() string { return "source" }
