package app

import (
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type Services struct {
	Topic       services.TopicService
	Feed        services.FeedService
	Event       services.EventService
	User        services.UserService
	Summarizer  services.SummarizerService
	Insight     services.InsightService
	Interaction services.InteractionService
	Cluster     services.ClusterService
	Seeder      services.SeederService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	topic := services.NewTopicService(db, log, r.Topic, clients.Cache)
	feed := services.NewFeedService(db, log, r.Event, r.Article, r.Source, clients.Cache)
	event := services.NewEventService(db, log, r.Event, r.Article, r.Source)
	user := services.NewUserService(db, log, r.User)
	summarizer := services.NewSummarizerService(log, clients.OpenAI)
	insight := services.NewInsightService(db, log, r.UserInsight, r.Event, user, summarizer, cfg.InsightTTL)
	interaction := services.NewInteractionService(db, log, r.Interaction, r.Event, user)
	cluster := services.NewClusterService(db, log, r.Article, r.Event, r.Source, summarizer, clients.OpenAI, cfg.EmbeddingDim)
	seeder := services.NewSeederService(db, log, r.Topic, r.Source, r.Event)

	return Services{
		Topic:       topic,
		Feed:        feed,
		Event:       event,
		User:        user,
		Summarizer:  summarizer,
		Insight:     insight,
		Interaction: interaction,
		Cluster:     cluster,
		Seeder:      seeder,
	}
}
