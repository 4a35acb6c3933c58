package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type TopicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Topic, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (tr *topicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (tr *topicRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Topic
	if err := transaction.WithContext(ctx).
		Order("display_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *topicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Topic
	if len(topicIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", topicIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *topicRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var row types.Topic
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (tr *topicRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Topic{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
