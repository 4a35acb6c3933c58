package repos_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	types "github.com/prismnews/prism-backend/internal/domain"
)

func TestGetByExternalIdentityID(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewUserRepo(tx, log)
	ctx := context.Background()

	created := testutil.User(t, tx, "identity|lookup")

	found, err := repo.GetByExternalIdentityID(ctx, tx, "identity|lookup")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected user %s, got %+v", created.ID, found)
	}

	missing, err := repo.GetByExternalIdentityID(ctx, tx, "identity|nobody")
	if err != nil {
		t.Fatalf("lookup missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown identity, got %+v", missing)
	}
}

func TestMergeProfile_ShallowMergeKeepsAbsentKeys(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewUserRepo(tx, log)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|merge")

	name := "Ada"
	age := 36
	seed, _ := json.Marshal(types.Profile{Name: &name, Age: &age})
	if err := repo.MergeProfile(ctx, tx, user.ID, seed); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	// Patch only the location; name and age must survive.
	location := "Lisbon"
	patch, _ := json.Marshal(types.Profile{Location: &location})
	if err := repo.MergeProfile(ctx, tx, user.ID, patch); err != nil {
		t.Fatalf("merge patch: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("reload user: %v (%d rows)", err, len(rows))
	}
	got := rows[0].Profile.Data()
	if got.Name == nil || *got.Name != "Ada" {
		t.Fatalf("name lost in merge: %+v", got)
	}
	if got.Age == nil || *got.Age != 36 {
		t.Fatalf("age lost in merge: %+v", got)
	}
	if got.Location == nil || *got.Location != "Lisbon" {
		t.Fatalf("location not applied: %+v", got)
	}
}

func TestReplacePrivateContext_ReplacesWholeObject(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := repos.NewUserRepo(tx, log)
	ctx := context.Background()

	user := testutil.User(t, tx, "identity|pc")

	bracket := "50k-75k"
	first := &types.PrivateContext{
		IncomeBracket: &bracket,
		Concerns:      []string{"housing", "healthcare"},
		Interests:     []string{"tech"},
	}
	if err := repo.ReplacePrivateContext(ctx, tx, user.ID, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := &types.PrivateContext{Concerns: []string{"education"}, Interests: []string{}}
	if err := repo.ReplacePrivateContext(ctx, tx, user.ID, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("reload user: %v (%d rows)", err, len(rows))
	}
	got := rows[0].PrivateContext.Data()
	if got == nil {
		t.Fatalf("expected private context")
	}
	if got.IncomeBracket != nil {
		t.Fatalf("income bracket should be gone after full replace: %+v", got)
	}
	if len(got.Concerns) != 1 || got.Concerns[0] != "education" {
		t.Fatalf("concerns not replaced: %+v", got.Concerns)
	}
}
