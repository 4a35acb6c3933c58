package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/clients/openai"
	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// IngestArticleInput is a raw article from the ingestion pipeline. The
// canonical URL is the dedup key; embedding is computed when absent.
type IngestArticleInput struct {
	SourceDomain string    `json:"source_domain"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	CanonicalURL string    `json:"canonical_url"`
	Summary      string    `json:"summary"`
	AtomicFacts  []string  `json:"atomic_facts"`
	AIBiasScore  float64   `json:"ai_bias_score"`
	Embedding    []float32 `json:"embedding,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
}

type CreateEventInput struct {
	Title     string      `json:"title"`
	TopicIDs  []uuid.UUID `json:"topic_ids"`
	Embedding []float32   `json:"embedding"`
}

// ClusterService is the write side of the article -> event pipeline. Reads
// never observe half-built state: events surface only after PublishEvent.
type ClusterService interface {
	// IngestArticle stores the article as unprocessed, or returns the
	// existing row untouched when the canonical URL was seen before. The
	// bool reports whether a new row was inserted.
	IngestArticle(ctx context.Context, input IngestArticleInput) (*types.Article, bool, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*types.Event, error)
	AssignArticle(ctx context.Context, articleID, eventID uuid.UUID) error
	DiscardArticle(ctx context.Context, articleID uuid.UUID) error
	PublishEvent(ctx context.Context, eventID uuid.UUID) error
	// RefreshSummaries regenerates perspective summaries and global impact
	// from the event's current articles and advances last_summarized_at.
	RefreshSummaries(ctx context.Context, eventID uuid.UUID) error
	// NearestEvents returns up to k published events closest to the
	// article's embedding, nearest first.
	NearestEvents(ctx context.Context, articleID uuid.UUID, k int) ([]*types.Event, error)
}

type clusterService struct {
	db           *gorm.DB
	log          *logger.Logger
	articleRepo  repos.ArticleRepo
	eventRepo    repos.EventRepo
	sourceRepo   repos.SourceRepo
	summarizer   SummarizerService
	ai           openai.Client
	embeddingDim int
}

func NewClusterService(
	db *gorm.DB,
	log *logger.Logger,
	articleRepo repos.ArticleRepo,
	eventRepo repos.EventRepo,
	sourceRepo repos.SourceRepo,
	summarizer SummarizerService,
	ai openai.Client,
	embeddingDim int,
) ClusterService {
	serviceLog := log.With("service", "ClusterService")
	return &clusterService{
		db:           db,
		log:          serviceLog,
		articleRepo:  articleRepo,
		eventRepo:    eventRepo,
		sourceRepo:   sourceRepo,
		summarizer:   summarizer,
		ai:           ai,
		embeddingDim: embeddingDim,
	}
}

func (cs *clusterService) IngestArticle(ctx context.Context, input IngestArticleInput) (*types.Article, bool, error) {
	if input.CanonicalURL == "" {
		return nil, false, apperr.New(400, "MISSING_CANONICAL_URL", fmt.Errorf("canonical_url is required"))
	}

	source, err := cs.sourceRepo.GetByDomain(ctx, nil, input.SourceDomain)
	if err != nil {
		return nil, false, fmt.Errorf("error resolving source %q: %w", input.SourceDomain, err)
	}
	if source == nil {
		return nil, false, apperr.New(400, "UNKNOWN_SOURCE", fmt.Errorf("no source registered for domain %q", input.SourceDomain))
	}

	embedding := input.Embedding
	if len(embedding) == 0 && cs.ai != nil {
		vecs, err := cs.ai.Embed(ctx, []string{input.Title + "\n" + input.Summary})
		if err != nil {
			cs.log.Warn("article embedding failed", "canonical_url", input.CanonicalURL, "error", err)
			return nil, false, apperr.ErrUpstreamUnavailable
		}
		embedding = vecs[0]
	}
	if len(embedding) > 0 && len(embedding) != cs.embeddingDim {
		return nil, false, apperr.New(400, "BAD_EMBEDDING_DIM",
			fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), cs.embeddingDim))
	}

	article := &types.Article{
		ID:           uuid.New(),
		SourceID:     source.ID,
		Title:        input.Title,
		URL:          input.URL,
		CanonicalURL: input.CanonicalURL,
		Summary:      input.Summary,
		AtomicFacts:  datatypes.JSONSlice[string](input.AtomicFacts),
		AIBiasScore:  input.AIBiasScore,
		Status:       types.ArticleStatusUnprocessed,
		PublishedAt:  input.PublishedAt,
	}
	if len(embedding) > 0 {
		vec := pgvector.NewVector(embedding)
		article.Embedding = &vec
	}

	stored, inserted, err := cs.articleRepo.UpsertByCanonicalURL(ctx, nil, article)
	if err != nil {
		return nil, false, fmt.Errorf("error ingesting article: %w", err)
	}
	return stored, inserted, nil
}

func (cs *clusterService) CreateEvent(ctx context.Context, input CreateEventInput) (*types.Event, error) {
	if input.Title == "" {
		return nil, apperr.New(400, "MISSING_TITLE", fmt.Errorf("title is required"))
	}
	if len(input.Embedding) != cs.embeddingDim {
		return nil, apperr.New(400, "BAD_EMBEDDING_DIM",
			fmt.Errorf("embedding has %d dimensions, want %d", len(input.Embedding), cs.embeddingDim))
	}

	event := &types.Event{
		ID:        uuid.New(),
		Title:     input.Title,
		Slug:      Slugify(input.Title),
		TopicIDs:  datatypes.JSONSlice[uuid.UUID](input.TopicIDs),
		Embedding: pgvector.NewVector(input.Embedding),
		Status:    types.EventStatusProcessing,
	}

	created, err := cs.eventRepo.Create(ctx, nil, []*types.Event{event})
	if err != nil {
		if repos.IsDuplicate(err) {
			// Slug collision; salt with the event id prefix and retry once.
			event.Slug = fmt.Sprintf("%s-%s", event.Slug, event.ID.String()[:8])
			created, err = cs.eventRepo.Create(ctx, nil, []*types.Event{event})
		}
		if err != nil {
			return nil, fmt.Errorf("error creating event: %w", err)
		}
	}
	return created[0], nil
}

func (cs *clusterService) AssignArticle(ctx context.Context, articleID, eventID uuid.UUID) error {
	events, err := cs.eventRepo.GetByIDs(ctx, nil, []uuid.UUID{eventID})
	if err != nil {
		return fmt.Errorf("error verifying event: %w", err)
	}
	if len(events) == 0 {
		return apperr.ErrNotFound
	}
	return cs.articleRepo.AssignToEvent(ctx, nil, articleID, eventID)
}

func (cs *clusterService) DiscardArticle(ctx context.Context, articleID uuid.UUID) error {
	return cs.articleRepo.Discard(ctx, nil, articleID)
}

func (cs *clusterService) PublishEvent(ctx context.Context, eventID uuid.UUID) error {
	return cs.eventRepo.Publish(ctx, nil, eventID, time.Now().UTC())
}

func (cs *clusterService) RefreshSummaries(ctx context.Context, eventID uuid.UUID) error {
	events, err := cs.eventRepo.GetByIDs(ctx, nil, []uuid.UUID{eventID})
	if err != nil {
		return fmt.Errorf("error fetching event: %w", err)
	}
	if len(events) == 0 {
		return apperr.ErrNotFound
	}
	event := events[0]

	articles, err := cs.articleRepo.GetByEventID(ctx, nil, eventID)
	if err != nil {
		return fmt.Errorf("error fetching event articles: %w", err)
	}
	if len(articles) == 0 {
		return apperr.New(409, "NO_ARTICLES", fmt.Errorf("event %s has no articles to summarize", eventID))
	}

	sourceIDs := make([]uuid.UUID, 0, len(articles))
	seen := make(map[uuid.UUID]bool, len(articles))
	for _, a := range articles {
		if !seen[a.SourceID] {
			seen[a.SourceID] = true
			sourceIDs = append(sourceIDs, a.SourceID)
		}
	}
	sources, err := cs.sourceRepo.GetByIDs(ctx, nil, sourceIDs)
	if err != nil {
		return fmt.Errorf("error fetching sources: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	withSources := make([]*ArticleWithSource, 0, len(articles))
	for _, a := range articles {
		withSources = append(withSources, &ArticleWithSource{Article: a, Source: byID[a.SourceID]})
	}

	summaries, globalImpact, err := cs.summarizer.GenerateEventSummaries(ctx, event, withSources)
	if err != nil {
		cs.log.Warn("summary generation failed", "event_id", eventID, "error", err)
		return apperr.ErrUpstreamUnavailable
	}

	return cs.eventRepo.UpdateSummaries(ctx, nil, eventID, *summaries, globalImpact, time.Now().UTC())
}

func (cs *clusterService) NearestEvents(ctx context.Context, articleID uuid.UUID, k int) ([]*types.Event, error) {
	articles, err := cs.articleRepo.GetByIDs(ctx, nil, []uuid.UUID{articleID})
	if err != nil {
		return nil, fmt.Errorf("error fetching article: %w", err)
	}
	if len(articles) == 0 {
		return nil, apperr.ErrNotFound
	}
	article := articles[0]
	if article.Embedding == nil {
		return nil, apperr.New(409, "NO_EMBEDDING", fmt.Errorf("article %s has no embedding", articleID))
	}

	if k <= 0 {
		k = 5
	}
	return cs.eventRepo.NearestPublished(ctx, nil, *article.Embedding, k)
}

// Slugify lowercases s and collapses runs of non-alphanumerics into single
// hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
