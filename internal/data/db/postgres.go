package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/env"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	postgresHost := env.GetEnv("POSTGRES_HOST", "localhost", logg)
	postgresPort := env.GetEnv("POSTGRES_PORT", "5432", logg)
	postgresUser := env.GetEnv("POSTGRES_USER", "postgres", logg)
	postgresPassword := env.GetEnv("POSTGRES_PASSWORD", "", logg)
	postgresName := env.GetEnv("POSTGRES_NAME", "prism", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		postgresHost,
		postgresPort,
		postgresName,
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable vector extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.Topic{},
		&domain.Source{},
		&domain.Event{},
		&domain.Article{},
		&domain.User{},
		&domain.UserInsight{},
		&domain.Interaction{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "article"
		DROP CONSTRAINT IF EXISTS "fk_article_source_id",
		ADD CONSTRAINT "fk_article_source_id"
		FOREIGN KEY ("source_id")
		REFERENCES "source"("id")
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_article_source_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "user_insight"
		DROP CONSTRAINT IF EXISTS "fk_user_insight_user_id",
		ADD CONSTRAINT "fk_user_insight_user_id"
		FOREIGN KEY ("user_id")
		REFERENCES "app_user"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_user_insight_user_id: %w", err)
	}

	// ivfflat needs rows to build useful lists; created lazily is fine, the
	// planner falls back to a sequential scan until then.
	if err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_event_embedding
		ON "event" USING ivfflat (embedding vector_cosine_ops)
	`).Error; err != nil {
		return fmt.Errorf("failed to create idx_event_embedding: %w", err)
	}

	return nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
