package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/services"
)

type fakeGenerator struct {
	calls int
	fail  bool
}

func (fg *fakeGenerator) GeneratePersonalInsight(ctx context.Context, user *types.User, event *types.Event) (*types.InsightContent, error) {
	fg.calls++
	if fg.fail {
		return nil, errors.New("model timeout")
	}
	return &types.InsightContent{
		PersonalImpact: fmt.Sprintf("impact v%d", fg.calls),
		ActionableTip:  "tip",
	}, nil
}

func TestInsightGetOrRefresh_CachesUntilEventChanges(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	insightRepo := repos.NewUserInsightRepo(tx, log)
	eventRepo := repos.NewEventRepo(tx, log)
	userSvc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	gen := &fakeGenerator{}
	svc := services.NewInsightService(tx, log, insightRepo, eventRepo, userSvc, gen, 24*time.Hour)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|insight")
	at := time.Now().UTC().Add(-time.Hour)
	event := testutil.PublishedEvent(t, tx, "cached-insight-event", at)

	first, err := svc.GetOrRefresh(ctx, user, event)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 generation, got %d", gen.calls)
	}

	second, err := svc.GetOrRefresh(ctx, user, event)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("cache hit must not regenerate, got %d calls", gen.calls)
	}
	if second.Content.Data() != first.Content.Data() {
		t.Fatalf("cached content changed: %+v vs %+v", second.Content.Data(), first.Content.Data())
	}

	// New summaries on the event invalidate the cached insight.
	if err := eventRepo.UpdateSummaries(ctx, tx, event.ID,
		types.PerspectiveSummaries{Center: "updated"}, "updated impact", time.Now().UTC()); err != nil {
		t.Fatalf("update summaries: %v", err)
	}
	updated, err := eventRepo.GetBySlug(ctx, tx, event.Slug)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}

	third, err := svc.GetOrRefresh(ctx, user, updated)
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("stale insight must regenerate, got %d calls", gen.calls)
	}
	if third.Content.Data().PersonalImpact != "impact v2" {
		t.Fatalf("refreshed content not served: %+v", third.Content.Data())
	}
}

func TestInsightGetOrRefresh_ExpiryForcesRegeneration(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	insightRepo := repos.NewUserInsightRepo(tx, log)
	eventRepo := repos.NewEventRepo(tx, log)
	userSvc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	gen := &fakeGenerator{}
	// Zero TTL: every stored row is immediately past its expiry.
	svc := services.NewInsightService(tx, log, insightRepo, eventRepo, userSvc, gen, 0)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|expiring")
	event := testutil.PublishedEvent(t, tx, "expiring-insight-event", time.Now().UTC().Add(-time.Hour))

	if _, err := svc.GetOrRefresh(ctx, user, event); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.GetOrRefresh(ctx, user, event); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("expired insight must regenerate, got %d calls", gen.calls)
	}
}

func TestInsightGetOrRefresh_GeneratorFailureLeavesStoredRow(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	insightRepo := repos.NewUserInsightRepo(tx, log)
	eventRepo := repos.NewEventRepo(tx, log)
	userSvc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	gen := &fakeGenerator{}
	svc := services.NewInsightService(tx, log, insightRepo, eventRepo, userSvc, gen, 24*time.Hour)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|failure")
	event := testutil.PublishedEvent(t, tx, "failing-insight-event", time.Now().UTC().Add(-2*time.Hour))

	stored, err := svc.GetOrRefresh(ctx, user, event)
	if err != nil {
		t.Fatalf("initial generation: %v", err)
	}

	if err := eventRepo.UpdateSummaries(ctx, tx, event.ID,
		types.PerspectiveSummaries{Center: "newer"}, "", time.Now().UTC()); err != nil {
		t.Fatalf("update summaries: %v", err)
	}
	updated, err := eventRepo.GetBySlug(ctx, tx, event.Slug)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}

	gen.fail = true
	if _, err := svc.GetOrRefresh(ctx, user, updated); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	// The previously stored insight must survive the failed refresh.
	row, err := insightRepo.GetByUserEvent(ctx, tx, user.ID, event.ID)
	if err != nil {
		t.Fatalf("reload insight: %v", err)
	}
	if row == nil || row.Content.Data() != stored.Content.Data() {
		t.Fatalf("stored insight mutated by failed refresh: %+v", row)
	}
}
