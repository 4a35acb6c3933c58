package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type UserInsightRepo interface {
	GetByUserEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*types.UserInsight, error)
	// Upsert writes the row keyed on (user_id, event_id); a concurrent second
	// writer overwrites rather than duplicates. last_notified_at is owned by
	// the notification collaborator and is preserved across refreshes.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserInsight) error
	SetLastNotified(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error)
}

type userInsightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserInsightRepo(db *gorm.DB, baseLog *logger.Logger) UserInsightRepo {
	repoLog := baseLog.With("repo", "UserInsightRepo")
	return &userInsightRepo{db: db, log: repoLog}
}

func (ir *userInsightRepo) GetByUserEvent(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) (*types.UserInsight, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if userID == uuid.Nil || eventID == uuid.Nil {
		return nil, nil
	}

	var row types.UserInsight
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (ir *userInsightRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserInsight) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if row == nil || row.UserID == uuid.Nil || row.EventID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content",
				"event_last_updated",
				"generated_at",
				"expires_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (ir *userInsightRepo) SetLastNotified(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	return transaction.WithContext(ctx).
		Model(&types.UserInsight{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Update("last_notified_at", at).Error
}

func (ir *userInsightRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	res := transaction.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&types.UserInsight{})
	return res.RowsAffected, res.Error
}
