package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// InteractionRepo is append-only; there is deliberately no update or delete.
type InteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) ([]*types.Interaction, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	repoLog := baseLog.With("repo", "InteractionRepo")
	return &interactionRepo{db: db, log: repoLog}
}

func (ir *interactionRepo) Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) ([]*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(interactions) == 0 {
		return []*types.Interaction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

func (ir *interactionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Interaction
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
