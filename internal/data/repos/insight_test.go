package repos_test

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	types "github.com/prismnews/prism-backend/internal/domain"
)

func TestInsightUpsert_RefreshPreservesLastNotifiedAt(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewUserInsightRepo(tx, log)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|abc")
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	event := testutil.PublishedEvent(t, tx, "insight-event", at)

	first := &types.UserInsight{
		UserID:           user.ID,
		EventID:          event.ID,
		Content:          datatypes.NewJSONType(types.InsightContent{PersonalImpact: "v1"}),
		EventLastUpdated: at,
		GeneratedAt:      at,
		ExpiresAt:        at.Add(24 * time.Hour),
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	notified := at.Add(time.Hour)
	if err := repo.SetLastNotified(ctx, tx, user.ID, event.ID, notified); err != nil {
		t.Fatalf("set last notified: %v", err)
	}

	second := &types.UserInsight{
		UserID:           user.ID,
		EventID:          event.ID,
		Content:          datatypes.NewJSONType(types.InsightContent{PersonalImpact: "v2"}),
		EventLastUpdated: at.Add(2 * time.Hour),
		GeneratedAt:      at.Add(2 * time.Hour),
		ExpiresAt:        at.Add(26 * time.Hour),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	row, err := repo.GetByUserEvent(ctx, tx, user.ID, event.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row == nil {
		t.Fatalf("expected a row")
	}
	if row.ID != first.ID {
		t.Fatalf("refresh must overwrite, not duplicate: got %s want %s", row.ID, first.ID)
	}
	if row.Content.Data().PersonalImpact != "v2" {
		t.Fatalf("content not refreshed: %+v", row.Content.Data())
	}
	if row.LastNotifiedAt == nil || !row.LastNotifiedAt.Equal(notified) {
		t.Fatalf("last_notified_at not preserved across refresh: %v", row.LastNotifiedAt)
	}
}

func TestDeleteExpired_RemovesOnlyPastRows(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewUserInsightRepo(tx, log)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|expiry")
	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	expired := testutil.PublishedEvent(t, tx, "expired-event", at)
	fresh := testutil.PublishedEvent(t, tx, "fresh-event", at)

	for _, row := range []*types.UserInsight{
		{UserID: user.ID, EventID: expired.ID, EventLastUpdated: at, GeneratedAt: at, ExpiresAt: at.Add(time.Hour)},
		{UserID: user.ID, EventID: fresh.ID, EventLastUpdated: at, GeneratedAt: at, ExpiresAt: at.Add(48 * time.Hour)},
	} {
		if err := repo.Upsert(ctx, tx, row); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	deleted, err := repo.DeleteExpired(ctx, tx, at.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}

	if row, _ := repo.GetByUserEvent(ctx, tx, user.ID, expired.ID); row != nil {
		t.Fatalf("expired row should be gone")
	}
	if row, _ := repo.GetByUserEvent(ctx, tx, user.ID, fresh.ID); row == nil {
		t.Fatalf("fresh row should survive")
	}
}
