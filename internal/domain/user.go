package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is the public part of a user record, safe to render in a UI.
type Profile struct {
	Name     *string `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Job      *string `json:"job,omitempty"`
	Location *string `json:"location,omitempty"`
}

// PrivateContext feeds personal-impact generation. It is replaced as one
// unit, never merged, because its fields are used together.
type PrivateContext struct {
	IncomeBracket    *string  `json:"incomeBracket,omitempty"`
	Concerns         []string `json:"concerns"`
	Interests        []string `json:"interests"`
	PoliticalLeaning *string  `json:"politicalLeaning,omitempty"`
}

// Stats tracks reading gamification. BiasBalance runs from -100 (left
// bubble) to +100 (right bubble).
type Stats struct {
	CurrentStreak int     `json:"currentStreak"`
	LongestStreak int     `json:"longestStreak"`
	ArticlesRead  int     `json:"articlesRead"`
	BiasBalance   float64 `json:"biasBalance"`
}

// User is materialized exactly once per verified external identity.
type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExternalIdentityID string    `gorm:"uniqueIndex;not null;column:external_identity_id" json:"external_identity_id"`
	Email              string    `gorm:"not null;column:email" json:"email"`
	EmailVerified      bool      `gorm:"not null;default:false;column:email_verified" json:"email_verified"`

	Profile        datatypes.JSONType[Profile]         `gorm:"column:profile" json:"profile"`
	PrivateContext datatypes.JSONType[*PrivateContext] `gorm:"column:private_context" json:"private_context,omitempty"`
	Stats          datatypes.JSONType[Stats]           `gorm:"column:stats" json:"stats"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }
