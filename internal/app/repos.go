package app

import (
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type Repos struct {
	Topic       repos.TopicRepo
	Source      repos.SourceRepo
	Article     repos.ArticleRepo
	Event       repos.EventRepo
	User        repos.UserRepo
	UserInsight repos.UserInsightRepo
	Interaction repos.InteractionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Topic:       repos.NewTopicRepo(db, log),
		Source:      repos.NewSourceRepo(db, log),
		Article:     repos.NewArticleRepo(db, log),
		Event:       repos.NewEventRepo(db, log),
		User:        repos.NewUserRepo(db, log),
		UserInsight: repos.NewUserInsightRepo(db, log),
		Interaction: repos.NewInteractionRepo(db, log),
	}
}
