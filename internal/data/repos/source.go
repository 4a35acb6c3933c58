package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type SourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sources []*types.Source) ([]*types.Source, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Source, error)
	GetByDomain(ctx context.Context, tx *gorm.DB, domain string) (*types.Source, error)
}

type sourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	repoLog := baseLog.With("repo", "SourceRepo")
	return &sourceRepo{db: db, log: repoLog}
}

func (sr *sourceRepo) Create(ctx context.Context, tx *gorm.DB, sources []*types.Source) ([]*types.Source, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(sources) == 0 {
		return []*types.Source{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

func (sr *sourceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Source, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Source
	if len(sourceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sourceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sourceRepo) GetByDomain(ctx context.Context, tx *gorm.DB, domain string) (*types.Source, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var row types.Source
	if err := transaction.WithContext(ctx).
		Where("domain = ?", domain).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
