package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/clients/redis"
	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

const topicCacheKey = "topics:all"
const topicCacheTTL = 5 * time.Minute

type TopicService interface {
	List(ctx context.Context) ([]*types.Topic, error)
}

type topicService struct {
	db        *gorm.DB
	log       *logger.Logger
	topicRepo repos.TopicRepo
	cache     redis.Cache
}

func NewTopicService(db *gorm.DB, log *logger.Logger, topicRepo repos.TopicRepo, cache redis.Cache) TopicService {
	serviceLog := log.With("service", "TopicService")
	return &topicService{db: db, log: serviceLog, topicRepo: topicRepo, cache: cache}
}

func (ts *topicService) List(ctx context.Context) ([]*types.Topic, error) {
	if ts.cache != nil {
		var cached []*types.Topic
		hit, err := ts.cache.GetJSON(ctx, topicCacheKey, &cached)
		if err != nil {
			ts.log.Warn("topic cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	topics, err := ts.topicRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing topics: %w", err)
	}

	if ts.cache != nil {
		if err := ts.cache.SetJSON(ctx, topicCacheKey, topics, topicCacheTTL); err != nil {
			ts.log.Warn("topic cache write failed", "error", err)
		}
	}
	return topics, nil
}
