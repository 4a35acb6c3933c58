package services_test

import (
	"context"
	"testing"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	"github.com/prismnews/prism-backend/internal/services"
)

func TestSeed_SecondRunIsNoop(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	topicRepo := repos.NewTopicRepo(tx, log)
	svc := services.NewSeederService(tx, log,
		topicRepo,
		repos.NewSourceRepo(tx, log),
		repos.NewEventRepo(tx, log),
	)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	after, err := topicRepo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count topics: %v", err)
	}
	if after == 0 {
		t.Fatalf("first seed created no topics")
	}

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("repeat seed must be a no-op, got: %v", err)
	}
	again, err := topicRepo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count topics after repeat: %v", err)
	}
	if again != after {
		t.Fatalf("repeat seed changed row count: %d vs %d", again, after)
	}
}
