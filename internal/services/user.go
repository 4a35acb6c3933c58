package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/requestdata"
)

type UserService interface {
	// GetOrCreate idempotently materializes the user row for the verified
	// identity on the request. Concurrent first contacts never produce two
	// rows: a create that loses the race falls back to reading the winner.
	GetOrCreate(ctx context.Context) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
	// UpdateProfile merges the patch shallowly; absent keys keep their value.
	UpdateProfile(ctx context.Context, patch types.Profile) (*types.User, error)
	// UpdatePrivateContext replaces the whole object; its fields are used
	// together for personalization, so there is no partial merge.
	UpdatePrivateContext(ctx context.Context, pc types.PrivateContext) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func identityFrom(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ExternalIdentityID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	return rd, nil
}

func (us *userService) GetOrCreate(ctx context.Context) (*types.User, error) {
	rd, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := us.userRepo.GetByExternalIdentityID(ctx, nil, rd.ExternalIdentityID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user by external identity: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	profile := types.Profile{}
	if rd.Name != "" {
		name := rd.Name
		profile.Name = &name
	}
	if rd.Avatar != "" {
		avatar := rd.Avatar
		profile.Avatar = &avatar
	}

	newUser := &types.User{
		ID:                 uuid.New(),
		ExternalIdentityID: rd.ExternalIdentityID,
		Email:              rd.Email,
		EmailVerified:      rd.EmailVerified,
		Profile:            datatypes.NewJSONType(profile),
		Stats: datatypes.NewJSONType(types.Stats{
			CurrentStreak: 0,
			LongestStreak: 0,
			ArticlesRead:  0,
			BiasBalance:   0,
		}),
	}

	created, err := us.userRepo.Create(ctx, nil, []*types.User{newUser})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent first contact; the winner's row is the user.
			winner, rErr := us.userRepo.GetByExternalIdentityID(ctx, nil, rd.ExternalIdentityID)
			if rErr != nil {
				return nil, fmt.Errorf("error re-reading user after create conflict: %w", rErr)
			}
			if winner == nil {
				return nil, apperr.ErrConflict
			}
			return winner, nil
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created[0], nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := us.userRepo.GetByExternalIdentityID(ctx, nil, rd.ExternalIdentityID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, patch types.Profile) (*types.User, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("error encoding profile patch: %w", err)
	}
	if err := us.userRepo.MergeProfile(ctx, nil, user.ID, patchJSON); err != nil {
		return nil, fmt.Errorf("error merging profile: %w", err)
	}

	return us.reload(ctx, user.ID)
}

func (us *userService) UpdatePrivateContext(ctx context.Context, pc types.PrivateContext) (*types.User, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	if err := us.userRepo.ReplacePrivateContext(ctx, nil, user.ID, &pc); err != nil {
		return nil, fmt.Errorf("error replacing private context: %w", err)
	}

	return us.reload(ctx, user.ID)
}

func (us *userService) reload(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error reloading user: %w", err)
	}
	if len(found) == 0 {
		return nil, apperr.ErrNotFound
	}
	return found[0], nil
}
