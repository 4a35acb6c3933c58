package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
)

func TestUpsertByCanonicalURL_SecondIngestReturnsExisting(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewArticleRepo(tx, log)
	ctx := context.Background()

	source := testutil.Source(t, tx, "reuters.com", 0)
	first := &types.Article{
		SourceID:     source.ID,
		Title:        "original title",
		URL:          "https://reuters.com/a",
		CanonicalURL: "https://reuters.com/a",
	}
	stored, inserted, err := repo.UpsertByCanonicalURL(ctx, tx, first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first upsert to insert")
	}

	second := &types.Article{
		SourceID:     source.ID,
		Title:        "different title",
		URL:          "https://reuters.com/a?utm=x",
		CanonicalURL: "https://reuters.com/a",
	}
	existing, inserted, err := repo.UpsertByCanonicalURL(ctx, tx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted {
		t.Fatalf("expected second upsert to be a no-op")
	}
	if existing.ID != stored.ID {
		t.Fatalf("expected the original row back, got %s want %s", existing.ID, stored.ID)
	}
	if existing.Title != "original title" {
		t.Fatalf("existing row must not be overwritten, got title %q", existing.Title)
	}
}

func TestAssignToEvent_OnlyFromUnprocessed(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewArticleRepo(tx, log)
	ctx := context.Background()

	source := testutil.Source(t, tx, "cnn.com", -2)
	event := testutil.ProcessingEvent(t, tx, "some-event")
	article := testutil.UnprocessedArticle(t, tx, source.ID, "https://cnn.com/a")

	if err := repo.AssignToEvent(ctx, tx, article.ID, event.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{article.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("reload article: %v (%d rows)", err, len(rows))
	}
	if rows[0].Status != types.ArticleStatusClustered {
		t.Fatalf("expected clustered, got %q", rows[0].Status)
	}
	if rows[0].EventID == nil || *rows[0].EventID != event.ID {
		t.Fatalf("expected event_id %s, got %v", event.ID, rows[0].EventID)
	}

	// Clustered is terminal: a second assignment must conflict.
	if err := repo.AssignToEvent(ctx, tx, article.ID, event.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict on re-assign, got %v", err)
	}
	// And so is discarding it.
	if err := repo.Discard(ctx, tx, article.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict on discard of clustered article, got %v", err)
	}
}

func TestDiscard_TerminalAndMissing(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewArticleRepo(tx, log)
	ctx := context.Background()

	source := testutil.Source(t, tx, "foxnews.com", 3)
	article := testutil.UnprocessedArticle(t, tx, source.ID, "https://foxnews.com/a")

	if err := repo.Discard(ctx, tx, article.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{article.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("reload article: %v (%d rows)", err, len(rows))
	}
	if rows[0].Status != types.ArticleStatusDiscarded {
		t.Fatalf("expected discarded, got %q", rows[0].Status)
	}
	if rows[0].EventID != nil {
		t.Fatalf("discarded article must have no event, got %v", rows[0].EventID)
	}

	event := testutil.ProcessingEvent(t, tx, "other-event")
	if err := repo.AssignToEvent(ctx, tx, article.ID, event.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict assigning discarded article, got %v", err)
	}

	if err := repo.Discard(ctx, tx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown article, got %v", err)
	}
}
