package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// ArticleWithSource joins an article with its resolved outlet. Source is nil
// when the reference fails to resolve; the article is still returned so
// callers can render degraded rather than drop content.
type ArticleWithSource struct {
	*types.Article
	Source *types.Source `json:"source"`
}

type EventDetail struct {
	Event    *types.Event         `json:"event"`
	Articles []*ArticleWithSource `json:"articles"`
}

type EventService interface {
	// GetBySlug returns the event and all its articles joined with their
	// sources. A missing slug yields apperr.ErrNotFound, which the boundary
	// must keep distinct from "still loading".
	GetBySlug(ctx context.Context, slug string) (*EventDetail, error)
}

type eventService struct {
	db          *gorm.DB
	log         *logger.Logger
	eventRepo   repos.EventRepo
	articleRepo repos.ArticleRepo
	sourceRepo  repos.SourceRepo
}

func NewEventService(db *gorm.DB, log *logger.Logger, eventRepo repos.EventRepo, articleRepo repos.ArticleRepo, sourceRepo repos.SourceRepo) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{
		db:          db,
		log:         serviceLog,
		eventRepo:   eventRepo,
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
	}
}

func (es *eventService) GetBySlug(ctx context.Context, slug string) (*EventDetail, error) {
	event, err := es.eventRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("error fetching event by slug: %w", err)
	}
	if event == nil {
		return nil, apperr.ErrNotFound
	}

	articles, err := es.articleRepo.GetByEventID(ctx, nil, event.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching articles for event %s: %w", event.ID, err)
	}

	sourceIDs := make([]uuid.UUID, 0, len(articles))
	seen := make(map[uuid.UUID]struct{}, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.SourceID]; ok {
			continue
		}
		seen[a.SourceID] = struct{}{}
		sourceIDs = append(sourceIDs, a.SourceID)
	}

	sources, err := es.sourceRepo.GetByIDs(ctx, nil, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching sources for event %s: %w", event.ID, err)
	}
	byID := make(map[uuid.UUID]*types.Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	joined := make([]*ArticleWithSource, 0, len(articles))
	for _, a := range articles {
		src, ok := byID[a.SourceID]
		if !ok {
			es.log.Warn("Article source reference failed to resolve", "article_id", a.ID, "source_id", a.SourceID, "error", apperr.ErrStaleReference)
			src = nil
		}
		joined = append(joined, &ArticleWithSource{Article: a, Source: src})
	}

	return &EventDetail{Event: event, Articles: joined}, nil
}
