// Package testutil provides database helpers for repo and service tests.
// Tests that need Postgres are skipped unless TEST_POSTGRES_DSN is set; the
// target database must have the uuid-ossp and vector extensions available.
package testutil

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

var (
	dbOnce sync.Once
	dbConn *gorm.DB
	dbErr  error
)

// DB opens the shared test database, migrating the schema once per process.
// Skips the calling test when TEST_POSTGRES_DSN is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}

	dbOnce.Do(func() {
		dbConn, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if dbErr != nil {
			return
		}
		for _, ext := range []string{`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`, `CREATE EXTENSION IF NOT EXISTS vector`} {
			if dbErr = dbConn.Exec(ext).Error; dbErr != nil {
				return
			}
		}
		dbErr = dbConn.AutoMigrate(
			&types.Topic{},
			&types.Source{},
			&types.Event{},
			&types.Article{},
			&types.User{},
			&types.UserInsight{},
			&types.Interaction{},
		)
	})
	if dbErr != nil {
		tb.Fatalf("open test database: %v", dbErr)
	}
	return dbConn
}

// Tx begins a transaction that rolls back when the test finishes, so tests
// never see each other's rows.
func Tx(tb testing.TB) *gorm.DB {
	tb.Helper()

	tx := DB(tb).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin transaction: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()

	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	return log
}

// ---- fixtures ----

func Topic(tb testing.TB, tx *gorm.DB, slug, displayName string) *types.Topic {
	tb.Helper()

	row := &types.Topic{ID: uuid.New(), Slug: slug, DisplayName: displayName}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create topic fixture: %v", err)
	}
	return row
}

func Source(tb testing.TB, tx *gorm.DB, domain string, baseBias float64) *types.Source {
	tb.Helper()

	row := &types.Source{
		ID:               uuid.New(),
		Domain:           domain,
		Name:             domain,
		BaseBias:         baseBias,
		ReliabilityScore: 7,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create source fixture: %v", err)
	}
	return row
}

// PublishedEvent creates a published event whose slug doubles as its title.
func PublishedEvent(tb testing.TB, tx *gorm.DB, slug string, firstPublishedAt time.Time, topicIDs ...uuid.UUID) *types.Event {
	tb.Helper()

	row := &types.Event{
		ID:    uuid.New(),
		Title: slug,
		Slug:  slug,
		PerspectiveSummaries: datatypes.NewJSONType(types.PerspectiveSummaries{
			Center: "center summary for " + slug,
		}),
		TopicIDs:         datatypes.JSONSlice[uuid.UUID](topicIDs),
		Embedding:        pgvector.NewVector(make([]float32, 1536)),
		EmbeddingVersion: 1,
		Status:           types.EventStatusPublished,
		FirstPublishedAt: firstPublishedAt,
		LastSummarizedAt: firstPublishedAt,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create event fixture: %v", err)
	}
	return row
}

func ProcessingEvent(tb testing.TB, tx *gorm.DB, slug string) *types.Event {
	tb.Helper()

	row := &types.Event{
		ID:               uuid.New(),
		Title:            slug,
		Slug:             slug,
		Embedding:        pgvector.NewVector(make([]float32, 1536)),
		EmbeddingVersion: 1,
		Status:           types.EventStatusProcessing,
		FirstPublishedAt: time.Now().UTC(),
		LastSummarizedAt: time.Now().UTC(),
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create event fixture: %v", err)
	}
	return row
}

func UnprocessedArticle(tb testing.TB, tx *gorm.DB, sourceID uuid.UUID, canonicalURL string) *types.Article {
	tb.Helper()

	row := &types.Article{
		ID:           uuid.New(),
		SourceID:     sourceID,
		Title:        "article " + canonicalURL,
		URL:          canonicalURL,
		CanonicalURL: canonicalURL,
		Status:       types.ArticleStatusUnprocessed,
		PublishedAt:  time.Now().UTC(),
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create article fixture: %v", err)
	}
	return row
}

func ClusteredArticle(tb testing.TB, tx *gorm.DB, sourceID, eventID uuid.UUID, canonicalURL string, publishedAt time.Time) *types.Article {
	tb.Helper()

	row := &types.Article{
		ID:           uuid.New(),
		EventID:      &eventID,
		SourceID:     sourceID,
		Title:        "article " + canonicalURL,
		URL:          canonicalURL,
		CanonicalURL: canonicalURL,
		Status:       types.ArticleStatusClustered,
		PublishedAt:  publishedAt,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create article fixture: %v", err)
	}
	return row
}

func User(tb testing.TB, tx *gorm.DB, externalID string) *types.User {
	tb.Helper()

	row := &types.User{
		ID:                 uuid.New(),
		ExternalIdentityID: externalID,
		Email:              externalID + "@example.com",
		EmailVerified:      true,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("create user fixture: %v", err)
	}
	return row
}
