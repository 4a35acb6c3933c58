package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// PageKey is the keyset position of the last row a feed page returned.
// Cursors encode position, not offset, so concurrent inserts cannot shift
// or duplicate already-returned items within one pagination walk.
type PageKey struct {
	FirstPublishedAt time.Time `json:"t"`
	ID               uuid.UUID `json:"id"`
}

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.Event) ([]*types.Event, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []uuid.UUID) ([]*types.Event, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Event, error)
	// ListPublished returns published events in (first_published_at, id)
	// descending order, starting strictly after the given key.
	ListPublished(ctx context.Context, tx *gorm.DB, after *PageKey, limit int) ([]*types.Event, error)
	// Publish transitions processing -> published exactly once; a second
	// attempt yields ErrConflict.
	Publish(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, now time.Time) error
	// UpdateSummaries replaces the perspective summaries and global impact and
	// advances last_summarized_at. The stamp only moves forward.
	UpdateSummaries(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, summaries types.PerspectiveSummaries, globalImpact string, now time.Time) error
	// NearestPublished returns up to k published events ordered by cosine
	// distance to the given embedding.
	NearestPublished(ctx context.Context, tx *gorm.DB, embedding pgvector.Vector, k int) ([]*types.Event, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.Event) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(events) == 0 {
		return []*types.Event{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (er *eventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []uuid.UUID) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Event
	if len(eventIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", eventIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var row types.Event
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

func (er *eventRepo) ListPublished(ctx context.Context, tx *gorm.DB, after *PageKey, limit int) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	q := transaction.WithContext(ctx).
		Where("status = ?", types.EventStatusPublished)
	if after != nil {
		q = q.Where("(first_published_at, id) < (?, ?)", after.FirstPublishedAt, after.ID)
	}

	var results []*types.Event
	if err := q.
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "first_published_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) Publish(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ? AND status = ?", eventID, types.EventStatusProcessing).
		Updates(map[string]any{
			"status":             types.EventStatusPublished,
			"first_published_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return er.transitionFailure(ctx, transaction, eventID)
	}
	return nil
}

func (er *eventRepo) UpdateSummaries(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, summaries types.PerspectiveSummaries, globalImpact string, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ? AND last_summarized_at < ?", eventID, now).
		Updates(map[string]any{
			"perspective_summaries": datatypes.NewJSONType(summaries),
			"global_impact":         globalImpact,
			"last_summarized_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return er.transitionFailure(ctx, transaction, eventID)
	}
	return nil
}

func (er *eventRepo) NearestPublished(ctx context.Context, tx *gorm.DB, embedding pgvector.Vector, k int) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Event
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.EventStatusPublished).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []any{embedding}}).
		Limit(k).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) transitionFailure(ctx context.Context, transaction *gorm.DB, eventID uuid.UUID) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ?", eventID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrConflict
}
