package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// RecordInteractionInput is the caller-supplied part of a log row. UserID
// and timestamp come from the request context and the server clock.
type RecordInteractionInput struct {
	EventID   uuid.UUID                  `json:"event_id"`
	ArticleID *uuid.UUID                 `json:"article_id,omitempty"`
	Type      string                     `json:"type"`
	Context   types.InteractionContext   `json:"context"`
	Metadata  *types.InteractionMetadata `json:"metadata,omitempty"`
}

type InteractionService interface {
	Record(ctx context.Context, input RecordInteractionInput) (*types.Interaction, error)
	ListMine(ctx context.Context, limit int) ([]*types.Interaction, error)
}

type interactionService struct {
	db              *gorm.DB
	log             *logger.Logger
	interactionRepo repos.InteractionRepo
	eventRepo       repos.EventRepo
	userService     UserService
}

func NewInteractionService(
	db *gorm.DB,
	log *logger.Logger,
	interactionRepo repos.InteractionRepo,
	eventRepo repos.EventRepo,
	userService UserService,
) InteractionService {
	serviceLog := log.With("service", "InteractionService")
	return &interactionService{
		db:              db,
		log:             serviceLog,
		interactionRepo: interactionRepo,
		eventRepo:       eventRepo,
		userService:     userService,
	}
}

func (is *interactionService) Record(ctx context.Context, input RecordInteractionInput) (*types.Interaction, error) {
	user, err := is.userService.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	if !types.ValidInteractionType(input.Type) {
		return nil, apperr.New(400, "INVALID_INTERACTION_TYPE",
			fmt.Errorf("unknown interaction type %q", input.Type))
	}
	if input.EventID == uuid.Nil {
		return nil, apperr.New(400, "MISSING_EVENT", fmt.Errorf("event_id is required"))
	}

	events, err := is.eventRepo.GetByIDs(ctx, nil, []uuid.UUID{input.EventID})
	if err != nil {
		return nil, fmt.Errorf("error verifying event: %w", err)
	}
	if len(events) == 0 {
		return nil, apperr.ErrNotFound
	}

	row := &types.Interaction{
		ID:        uuid.New(),
		UserID:    user.ID,
		EventID:   input.EventID,
		ArticleID: input.ArticleID,
		Type:      input.Type,
		Context:   datatypes.NewJSONType(input.Context),
		Timestamp: time.Now().UTC(),
	}
	if input.Metadata != nil {
		row.Metadata = datatypes.NewJSONType(*input.Metadata)
	}

	created, err := is.interactionRepo.Create(ctx, nil, []*types.Interaction{row})
	if err != nil {
		return nil, fmt.Errorf("error recording interaction: %w", err)
	}
	return created[0], nil
}

func (is *interactionService) ListMine(ctx context.Context, limit int) ([]*types.Interaction, error) {
	user, err := is.userService.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := is.interactionRepo.GetByUserID(ctx, nil, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing interactions: %w", err)
	}
	return rows, nil
}
