package services_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	"github.com/prismnews/prism-backend/internal/data/testutil"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/requestdata"
	"github.com/prismnews/prism-backend/internal/services"
)

func authedCtx(externalID string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		ExternalIdentityID: externalID,
		Email:              externalID + "@example.com",
		EmailVerified:      true,
		Name:               "Test Reader",
	})
}

func TestGetOrCreate_IdempotentPerIdentity(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	ctx := authedCtx("identity|bootstrap")

	first, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if first.ExternalIdentityID != "identity|bootstrap" {
		t.Fatalf("wrong identity: %q", first.ExternalIdentityID)
	}
	if p := first.Profile.Data(); p.Name == nil || *p.Name != "Test Reader" {
		t.Fatalf("profile not seeded from identity: %+v", p)
	}

	second, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("bootstrap created a second row: %s vs %s", second.ID, first.ID)
	}
}

// missOnceUserRepo reports the identity as absent for the first lookup,
// reproducing the window where two first contacts both pass the existence
// check and race on the unique index.
type missOnceUserRepo struct {
	repos.UserRepo
	misses int
}

func (r *missOnceUserRepo) GetByExternalIdentityID(ctx context.Context, tx *gorm.DB, externalID string) (*types.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.UserRepo.GetByExternalIdentityID(ctx, tx, externalID)
}

func TestGetOrCreate_LostRaceFallsBackToWinner(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(tx, log)
	ctx := authedCtx("identity|race")

	winner, err := services.NewUserService(tx, log, userRepo).GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("winner bootstrap: %v", err)
	}

	loser := services.NewUserService(tx, log, &missOnceUserRepo{UserRepo: userRepo, misses: 1})
	got, err := loser.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("losing bootstrap must not fail: %v", err)
	}
	if got.ID != winner.ID {
		t.Fatalf("lost race returned a different row: %s vs %s", got.ID, winner.ID)
	}
}

func TestUserService_RequiresIdentity(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	ctx := context.Background()

	if _, err := svc.GetOrCreate(ctx); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Fatalf("GetOrCreate without identity: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.GetMe(ctx); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Fatalf("GetMe without identity: expected ErrNotAuthenticated, got %v", err)
	}
}

func TestGetMe_UnknownIdentityIsNotFound(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))

	if _, err := svc.GetMe(authedCtx("identity|never-bootstrapped")); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_MergesShallowly(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	ctx := authedCtx("identity|profile")

	if _, err := svc.GetOrCreate(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	job := "nurse"
	if _, err := svc.UpdateProfile(ctx, types.Profile{Job: &job}); err != nil {
		t.Fatalf("first patch: %v", err)
	}
	location := "Porto"
	updated, err := svc.UpdateProfile(ctx, types.Profile{Location: &location})
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}

	p := updated.Profile.Data()
	if p.Job == nil || *p.Job != "nurse" {
		t.Fatalf("job lost by later patch: %+v", p)
	}
	if p.Location == nil || *p.Location != "Porto" {
		t.Fatalf("location not applied: %+v", p)
	}
	if p.Name == nil || *p.Name != "Test Reader" {
		t.Fatalf("seeded name lost: %+v", p)
	}
}

func TestUpdatePrivateContext_Replaces(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := services.NewUserService(tx, log, repos.NewUserRepo(tx, log))
	ctx := authedCtx("identity|private")

	if _, err := svc.GetOrCreate(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	bracket := "75k-100k"
	if _, err := svc.UpdatePrivateContext(ctx, types.PrivateContext{
		IncomeBracket: &bracket,
		Concerns:      []string{"rent"},
		Interests:     []string{"markets"},
	}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	updated, err := svc.UpdatePrivateContext(ctx, types.PrivateContext{
		Concerns:  []string{"tuition"},
		Interests: []string{},
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}

	pc := updated.PrivateContext.Data()
	if pc == nil {
		t.Fatalf("expected private context")
	}
	if pc.IncomeBracket != nil {
		t.Fatalf("replace must drop absent fields: %+v", pc)
	}
	if len(pc.Concerns) != 1 || pc.Concerns[0] != "tuition" {
		t.Fatalf("concerns not replaced: %+v", pc.Concerns)
	}
}
