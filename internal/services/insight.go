package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// Generator produces personalized insight content for one (user, event)
// pair. It is a collaborator seam: the production implementation calls the
// text-generation API, tests substitute a fake.
type Generator interface {
	GeneratePersonalInsight(ctx context.Context, user *types.User, event *types.Event) (*types.InsightContent, error)
}

type InsightService interface {
	// GetOrRefreshBySlug resolves the caller's user row and the published
	// event behind slug, then serves the cached insight or regenerates it.
	GetOrRefreshBySlug(ctx context.Context, slug string) (*types.UserInsight, error)
	GetOrRefresh(ctx context.Context, user *types.User, event *types.Event) (*types.UserInsight, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type insightService struct {
	db          *gorm.DB
	log         *logger.Logger
	insightRepo repos.UserInsightRepo
	eventRepo   repos.EventRepo
	userService UserService
	generator   Generator
	ttl         time.Duration
	now         func() time.Time
}

func NewInsightService(
	db *gorm.DB,
	log *logger.Logger,
	insightRepo repos.UserInsightRepo,
	eventRepo repos.EventRepo,
	userService UserService,
	generator Generator,
	ttl time.Duration,
) InsightService {
	serviceLog := log.With("service", "InsightService")
	return &insightService{
		db:          db,
		log:         serviceLog,
		insightRepo: insightRepo,
		eventRepo:   eventRepo,
		userService: userService,
		generator:   generator,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (is *insightService) GetOrRefreshBySlug(ctx context.Context, slug string) (*types.UserInsight, error) {
	user, err := is.userService.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	event, err := is.eventRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("error fetching event %q: %w", slug, err)
	}
	if event == nil || event.Status != types.EventStatusPublished {
		return nil, apperr.ErrNotFound
	}

	return is.GetOrRefresh(ctx, user, event)
}

func (is *insightService) GetOrRefresh(ctx context.Context, user *types.User, event *types.Event) (*types.UserInsight, error) {
	now := is.now()

	cached, err := is.insightRepo.GetByUserEvent(ctx, nil, user.ID, event.ID)
	if err != nil {
		return nil, fmt.Errorf("error reading cached insight: %w", err)
	}
	if cached != nil && !cached.Stale(event.LastSummarizedAt, now) {
		return cached, nil
	}

	content, err := is.generator.GeneratePersonalInsight(ctx, user, event)
	if err != nil {
		// Stored row stays untouched so a later retry can still refresh it.
		is.log.Warn("insight generation failed", "user_id", user.ID, "event_id", event.ID, "error", err)
		return nil, apperr.ErrUpstreamUnavailable
	}

	row := &types.UserInsight{
		UserID:           user.ID,
		EventID:          event.ID,
		Content:          datatypes.NewJSONType(*content),
		EventLastUpdated: event.LastSummarizedAt,
		GeneratedAt:      now,
		ExpiresAt:        now.Add(is.ttl),
	}
	if cached != nil {
		row.ID = cached.ID
		row.LastNotifiedAt = cached.LastNotifiedAt
	}
	if err := is.insightRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("error storing insight: %w", err)
	}
	return row, nil
}

func (is *insightService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := is.insightRepo.DeleteExpired(ctx, nil, is.now())
	if err != nil {
		return 0, fmt.Errorf("error purging expired insights: %w", err)
	}
	if deleted > 0 {
		is.log.Info("purged expired insights", "count", deleted)
	}
	return deleted, nil
}
