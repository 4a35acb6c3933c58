package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type ArticleRepo interface {
	// UpsertByCanonicalURL inserts the article unless a row with the same
	// canonical URL already exists, in which case the existing row is
	// returned unchanged. The bool reports whether an insert happened.
	UpsertByCanonicalURL(ctx context.Context, tx *gorm.DB, article *types.Article) (*types.Article, bool, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, articleIDs []uuid.UUID) ([]*types.Article, error)
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Article, error)
	// AssignToEvent moves an unprocessed article to clustered with the given
	// event. Clustered and discarded are terminal; assigning a non-unprocessed
	// article yields ErrConflict.
	AssignToEvent(ctx context.Context, tx *gorm.DB, articleID, eventID uuid.UUID) error
	// Discard moves an unprocessed article to the terminal discarded state.
	Discard(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	repoLog := baseLog.With("repo", "ArticleRepo")
	return &articleRepo{db: db, log: repoLog}
}

func (ar *articleRepo) UpsertByCanonicalURL(ctx context.Context, tx *gorm.DB, article *types.Article) (*types.Article, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	article.Status = types.ArticleStatusUnprocessed
	article.EventID = nil

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "canonical_url"}},
			DoNothing: true,
		}).
		Create(article)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return article, true, nil
	}

	var existing types.Article
	if err := transaction.WithContext(ctx).
		Where("canonical_url = ?", article.CanonicalURL).
		Limit(1).
		Find(&existing).Error; err != nil {
		return nil, false, err
	}
	if existing.ID == uuid.Nil {
		return nil, false, apperr.ErrConflict
	}
	return &existing, false, nil
}

func (ar *articleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, articleIDs []uuid.UUID) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Article
	if len(articleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", articleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Article
	if err := transaction.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("published_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) AssignToEvent(ctx context.Context, tx *gorm.DB, articleID, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Article{}).
		Where("id = ? AND status = ?", articleID, types.ArticleStatusUnprocessed).
		Updates(map[string]any{
			"event_id": eventID,
			"status":   types.ArticleStatusClustered,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ar.transitionFailure(ctx, transaction, articleID)
	}
	return nil
}

func (ar *articleRepo) Discard(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Article{}).
		Where("id = ? AND status = ?", articleID, types.ArticleStatusUnprocessed).
		Update("status", types.ArticleStatusDiscarded)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ar.transitionFailure(ctx, transaction, articleID)
	}
	return nil
}

// transitionFailure distinguishes "no such article" from "already terminal"
// after a guarded transition matched zero rows.
func (ar *articleRepo) transitionFailure(ctx context.Context, transaction *gorm.DB, articleID uuid.UUID) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Article{}).
		Where("id = ?", articleID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrConflict
}

// IsDuplicate reports whether err is a uniqueness violation surfaced by the
// storage layer.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, apperr.ErrConflict)
}
