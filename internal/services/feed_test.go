package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	"github.com/prismnews/prism-backend/internal/services"
)

func TestFeedEnrichment_CountsArticlesAndDedupesSources(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewFeedService(tx, log,
		repos.NewEventRepo(tx, log),
		repos.NewArticleRepo(tx, log),
		repos.NewSourceRepo(tx, log),
		nil)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	event := testutil.PublishedEvent(t, tx, "enriched-event", base)
	cnn := testutil.Source(t, tx, "cnn.com", -2)
	reuters := testutil.Source(t, tx, "reuters.com", 0)

	// Two CNN articles and one Reuters; earliest article is from CNN.
	testutil.ClusteredArticle(t, tx, cnn.ID, event.ID, "https://cnn.com/1", base.Add(-3*time.Hour))
	testutil.ClusteredArticle(t, tx, reuters.ID, event.ID, "https://reuters.com/1", base.Add(-2*time.Hour))
	testutil.ClusteredArticle(t, tx, cnn.ID, event.ID, "https://cnn.com/2", base.Add(-1*time.Hour))

	page, err := svc.ListPublished(ctx, "", 10, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(page.Events))
	}
	got := page.Events[0]
	if got.ArticleCount != 3 {
		t.Fatalf("expected article_count 3, got %d", got.ArticleCount)
	}
	if len(got.Sources) != 2 {
		t.Fatalf("expected 2 deduped sources, got %d", len(got.Sources))
	}
	if got.Sources[0].ID != cnn.ID || got.Sources[1].ID != reuters.ID {
		t.Fatalf("sources not in first-seen order: %s, %s", got.Sources[0].Domain, got.Sources[1].Domain)
	}
	if page.NextCursor != "" {
		t.Fatalf("single page should have no next cursor, got %q", page.NextCursor)
	}
}

func TestFeedTopicFilter_CursorStillVisitsEveryEvent(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewFeedService(tx, log,
		repos.NewEventRepo(tx, log),
		repos.NewArticleRepo(tx, log),
		repos.NewSourceRepo(tx, log),
		nil)
	ctx := context.Background()

	topic := testutil.Topic(t, tx, "economy", "Economy")
	base := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	// Alternate tagged/untagged events; a filtered walk must still find all
	// tagged ones even when whole fetched pages filter down to nothing.
	var tagged []uuid.UUID
	for i := 0; i < 6; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		if i%2 == 0 {
			ev := testutil.PublishedEvent(t, tx, uuid.NewString(), at, topic.ID)
			tagged = append(tagged, ev.ID)
		} else {
			testutil.PublishedEvent(t, tx, uuid.NewString(), at)
		}
	}

	found := map[uuid.UUID]bool{}
	cursor := ""
	for steps := 0; ; steps++ {
		if steps > 10 {
			t.Fatalf("pagination did not terminate")
		}
		page, err := svc.ListPublished(ctx, cursor, 2, &topic.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, ev := range page.Events {
			if found[ev.ID] {
				t.Fatalf("event %s returned twice", ev.ID)
			}
			found[ev.ID] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if len(found) != len(tagged) {
		t.Fatalf("expected %d tagged events, walked %d", len(tagged), len(found))
	}
	for _, id := range tagged {
		if !found[id] {
			t.Fatalf("tagged event %s never returned", id)
		}
	}
}
