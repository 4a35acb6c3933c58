package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetByExternalIdentityID(ctx context.Context, tx *gorm.DB, externalID string) (*types.User, error)
	// MergeProfile shallow-merges the given patch into the stored profile in
	// one statement; keys absent from the patch retain their prior value.
	MergeProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patchJSON []byte) error
	// ReplacePrivateContext swaps the entire private context atomically.
	ReplacePrivateContext(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pc *types.PrivateContext) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByExternalIdentityID(ctx context.Context, tx *gorm.DB, externalID string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var row types.User
	if err := transaction.WithContext(ctx).
		Where("external_identity_id = ?", externalID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (ur *userRepo) MergeProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patchJSON []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	// jsonb || is a native shallow merge, so the read-merge-write cycle
	// collapses into one atomic statement.
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("profile", gorm.Expr("COALESCE(profile, '{}'::jsonb) || ?::jsonb", string(patchJSON))).Error
}

func (ur *userRepo) ReplacePrivateContext(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pc *types.PrivateContext) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("private_context", datatypes.NewJSONType(pc)).Error
}
