package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/clients/redis"
	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50

	frontPageCacheTTL = 30 * time.Second
)

// EnrichedEvent is a published event plus its evidence summary: how many
// articles contributed and which distinct outlets they came from, in
// first-seen order.
type EnrichedEvent struct {
	*types.Event
	ArticleCount int             `json:"article_count"`
	Sources      []*types.Source `json:"sources"`
}

type FeedPage struct {
	Events     []*EnrichedEvent `json:"events"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type FeedService interface {
	// ListPublished returns one page of published events, most recent
	// firstPublishedAt first. When topicID is set the filter is applied after
	// the page is fetched, so pageSize is an upper bound on returned items,
	// not a guarantee.
	ListPublished(ctx context.Context, cursor string, pageSize int, topicID *uuid.UUID) (*FeedPage, error)
}

type feedService struct {
	db          *gorm.DB
	log         *logger.Logger
	eventRepo   repos.EventRepo
	articleRepo repos.ArticleRepo
	sourceRepo  repos.SourceRepo
	cache       redis.Cache
}

func NewFeedService(db *gorm.DB, log *logger.Logger, eventRepo repos.EventRepo, articleRepo repos.ArticleRepo, sourceRepo repos.SourceRepo, cache redis.Cache) FeedService {
	serviceLog := log.With("service", "FeedService")
	return &feedService{
		db:          db,
		log:         serviceLog,
		eventRepo:   eventRepo,
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
		cache:       cache,
	}
}

func encodeFeedCursor(key repos.PageKey) string {
	b, _ := json.Marshal(key)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeFeedCursor(cursor string) (*repos.PageKey, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, apperr.ErrInvalidCursor
	}
	var key repos.PageKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, apperr.ErrInvalidCursor
	}
	if key.ID == uuid.Nil || key.FirstPublishedAt.IsZero() {
		return nil, apperr.ErrInvalidCursor
	}
	return &key, nil
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}

func (fs *feedService) ListPublished(ctx context.Context, cursor string, pageSize int, topicID *uuid.UUID) (*FeedPage, error) {
	pageSize = normalizePageSize(pageSize)

	after, err := decodeFeedCursor(cursor)
	if err != nil {
		return nil, err
	}

	frontPage := after == nil && topicID == nil
	cacheKey := fmt.Sprintf("feed:front:%d", pageSize)
	if frontPage && fs.cache != nil {
		var cached FeedPage
		hit, cErr := fs.cache.GetJSON(ctx, cacheKey, &cached)
		if cErr != nil {
			fs.log.Warn("Feed cache read failed", "error", cErr)
		} else if hit {
			return &cached, nil
		}
	}

	// Fetch one extra row to know whether a next page exists.
	events, err := fs.eventRepo.ListPublished(ctx, nil, after, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("error listing published events: %w", err)
	}

	hasMore := len(events) > pageSize
	if hasMore {
		events = events[:pageSize]
	}

	// The cursor tracks the fetched page, not the filtered one, so a
	// pagination walk still visits every event exactly once.
	nextCursor := ""
	if hasMore {
		last := events[len(events)-1]
		nextCursor = encodeFeedCursor(repos.PageKey{
			FirstPublishedAt: last.FirstPublishedAt,
			ID:               last.ID,
		})
	}

	if topicID != nil {
		filtered := events[:0]
		for _, ev := range events {
			if ev.HasTopic(*topicID) {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}

	enriched := make([]*EnrichedEvent, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, ev := range events {
		g.Go(func() error {
			item, eErr := fs.enrich(gctx, ev)
			if eErr != nil {
				return eErr
			}
			enriched[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &FeedPage{Events: enriched, NextCursor: nextCursor}

	if frontPage && fs.cache != nil {
		if cErr := fs.cache.SetJSON(ctx, cacheKey, page, frontPageCacheTTL); cErr != nil {
			fs.log.Warn("Feed cache write failed", "error", cErr)
		}
	}

	return page, nil
}

func (fs *feedService) enrich(ctx context.Context, ev *types.Event) (*EnrichedEvent, error) {
	articles, err := fs.articleRepo.GetByEventID(ctx, nil, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching articles for event %s: %w", ev.ID, err)
	}

	// Dedupe source ids preserving first-seen order.
	seen := make(map[uuid.UUID]struct{}, len(articles))
	orderedIDs := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.SourceID]; ok {
			continue
		}
		seen[a.SourceID] = struct{}{}
		orderedIDs = append(orderedIDs, a.SourceID)
	}

	sources, err := fs.sourceRepo.GetByIDs(ctx, nil, orderedIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching sources for event %s: %w", ev.ID, err)
	}
	byID := make(map[uuid.UUID]*types.Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	// A reference that fails to resolve is a soft inconsistency; the page
	// never fails because one source row went away.
	ordered := make([]*types.Source, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		s, ok := byID[id]
		if !ok {
			fs.log.Warn("Dropping unresolvable source reference", "event_id", ev.ID, "source_id", id, "error", apperr.ErrStaleReference)
			continue
		}
		ordered = append(ordered, s)
	}

	return &EnrichedEvent{
		Event:        ev,
		ArticleCount: len(articles),
		Sources:      ordered,
	}, nil
}
