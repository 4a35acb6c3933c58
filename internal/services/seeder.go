package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prismnews/prism-backend/internal/data/repos"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// SeederService loads a small fixture dataset for local development: two
// topics, three sources, two published events with three articles each.
type SeederService interface {
	// Seed is a no-op against a non-empty database.
	Seed(ctx context.Context) error
	// Clear deletes all rows in dependency order.
	Clear(ctx context.Context) error
}

type seederService struct {
	db         *gorm.DB
	log        *logger.Logger
	topicRepo  repos.TopicRepo
	sourceRepo repos.SourceRepo
	eventRepo  repos.EventRepo
}

func NewSeederService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	sourceRepo repos.SourceRepo,
	eventRepo repos.EventRepo,
) SeederService {
	serviceLog := log.With("service", "SeederService")
	return &seederService{
		db:         db,
		log:        serviceLog,
		topicRepo:  topicRepo,
		sourceRepo: sourceRepo,
		eventRepo:  eventRepo,
	}
}

func (ss *seederService) Seed(ctx context.Context) error {
	count, err := ss.topicRepo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("error checking for existing data: %w", err)
	}
	if count > 0 {
		ss.log.Info("Database already seeded, skipping", "topic_count", count)
		return nil
	}

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		// Placeholder embeddings; real vectors come from the ingestion pipeline.
		zeroVec := pgvector.NewVector(make([]float32, 1536))

		topicEconomy := &types.Topic{ID: uuid.New(), Slug: "economy", DisplayName: "Economy"}
		topicTech := &types.Topic{ID: uuid.New(), Slug: "tech", DisplayName: "Tech"}
		if _, err := ss.topicRepo.Create(ctx, tx, []*types.Topic{topicEconomy, topicTech}); err != nil {
			return fmt.Errorf("error seeding topics: %w", err)
		}

		sourceCNN := &types.Source{
			ID: uuid.New(), Domain: "cnn.com", Name: "CNN",
			BaseBias: -2, ReliabilityScore: 7, LogoURL: "https://logo.clearbit.com/cnn.com",
		}
		sourceFox := &types.Source{
			ID: uuid.New(), Domain: "foxnews.com", Name: "Fox News",
			BaseBias: 3, ReliabilityScore: 6, LogoURL: "https://logo.clearbit.com/foxnews.com",
		}
		sourceReuters := &types.Source{
			ID: uuid.New(), Domain: "reuters.com", Name: "Reuters",
			BaseBias: 0, ReliabilityScore: 9, LogoURL: "https://logo.clearbit.com/reuters.com",
		}
		if _, err := ss.sourceRepo.Create(ctx, tx, []*types.Source{sourceCNN, sourceFox, sourceReuters}); err != nil {
			return fmt.Errorf("error seeding sources: %w", err)
		}

		eventFedRates := &types.Event{
			ID:    uuid.New(),
			Title: "Federal Reserve Raises Interest Rates to 5.5%",
			Slug:  "fed-raises-rates-2026",
			PerspectiveSummaries: datatypes.NewJSONType(types.PerspectiveSummaries{
				Center: "The Federal Reserve raised interest rates by 0.25% to combat persistent inflation, bringing the federal funds rate to 5.5%. This marks the highest level in over two decades.",
				Left:   "Critics argue the rate hike disproportionately affects working-class Americans and small businesses, while large corporations can absorb the costs. Housing affordability continues to decline.",
				Right:  "The Fed's decisive action demonstrates fiscal responsibility. Controlling inflation is essential for long-term economic stability, and markets have responded positively to the measured approach.",
			}),
			GlobalImpact:     "Higher borrowing costs affect mortgages, car loans, and credit cards. Savers benefit from better yields on savings accounts.",
			TopicIDs:         datatypes.JSONSlice[uuid.UUID]{topicEconomy.ID},
			Embedding:        zeroVec,
			EmbeddingVersion: 1,
			Status:           types.EventStatusPublished,
			FirstPublishedAt: now.Add(-24 * time.Hour),
			LastSummarizedAt: now.Add(-1 * time.Hour),
		}
		eventAIRegulations := &types.Event{
			ID:    uuid.New(),
			Title: "Congress Proposes Comprehensive AI Regulation Framework",
			Slug:  "ai-regulations-congress-2026",
			PerspectiveSummaries: datatypes.NewJSONType(types.PerspectiveSummaries{
				Center: "A bipartisan bill introduced in Congress aims to establish the first comprehensive regulatory framework for AI systems, requiring transparency in training data and mandatory safety audits for high-risk applications.",
				Left:   "The bill doesn't go far enough in protecting workers from AI displacement. Stronger provisions are needed for algorithmic bias prevention and union consultation rights.",
				Right:  "While some oversight is reasonable, excessive regulation could stifle American innovation and hand competitive advantage to China. The free market should primarily guide AI development.",
			}),
			GlobalImpact:     "Tech companies may face new compliance costs. Consumers could see improved AI transparency and safety standards.",
			TopicIDs:         datatypes.JSONSlice[uuid.UUID]{topicTech.ID},
			Embedding:        zeroVec,
			EmbeddingVersion: 1,
			Status:           types.EventStatusPublished,
			FirstPublishedAt: now.Add(-48 * time.Hour),
			LastSummarizedAt: now.Add(-2 * time.Hour),
		}
		if _, err := ss.eventRepo.Create(ctx, tx, []*types.Event{eventFedRates, eventAIRegulations}); err != nil {
			return fmt.Errorf("error seeding events: %w", err)
		}

		articles := []*types.Article{
			{
				ID: uuid.New(), EventID: &eventFedRates.ID, SourceID: sourceCNN.ID,
				Title:        "Fed Hikes Rates Again as Inflation Persists, Squeezing American Families",
				URL:          "https://cnn.com/2026/01/06/economy/fed-rate-hike-inflation",
				CanonicalURL: "https://cnn.com/2026/01/06/economy/fed-rate-hike-inflation",
				Summary:      "The Federal Reserve raised its benchmark interest rate to 5.5%, the highest since 2001. Economists warn this could further strain household budgets already stretched by years of inflation.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"Rate increased by 0.25%", "New rate: 5.5%", "Highest since 2001",
					"11th hike in current cycle", "Mortgage rates expected to rise",
				},
				AIBiasScore: -2, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 6, 14, 30, 0, 0, time.UTC),
			},
			{
				ID: uuid.New(), EventID: &eventFedRates.ID, SourceID: sourceFox.ID,
				Title:        "Federal Reserve Takes Strong Action to Tame Inflation, Markets Rally",
				URL:          "https://foxnews.com/2026/01/06/fed-rate-hike-markets-rally",
				CanonicalURL: "https://foxnews.com/2026/01/06/fed-rate-hike-markets-rally",
				Summary:      "The Fed's latest rate increase signals commitment to price stability. Wall Street responded positively, with the S&P 500 gaining 1.2% following the announcement.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"Rate increased to 5.5%", "S&P 500 up 1.2%", "Dow Jones up 350 points",
					"Fed Chair: 'Inflation battle continuing'", "Next meeting in 6 weeks",
				},
				AIBiasScore: 2, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 6, 15, 0, 0, 0, time.UTC),
			},
			{
				ID: uuid.New(), EventID: &eventFedRates.ID, SourceID: sourceReuters.ID,
				Title:        "U.S. Federal Reserve Raises Rates to 5.5%, Signals Cautious Outlook",
				URL:          "https://reuters.com/2026/01/06/fed-rate-decision",
				CanonicalURL: "https://reuters.com/2026/01/06/fed-rate-decision",
				Summary:      "The U.S. Federal Reserve raised interest rates by 25 basis points to 5.5% on Wednesday, while indicating future decisions will depend on incoming economic data.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"25 basis point increase", "Target range: 5.25%-5.5%", "Decision was unanimous",
					"Data-dependent approach emphasized", "Inflation at 3.2% (down from 3.5%)",
				},
				AIBiasScore: 0, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC),
			},
			{
				ID: uuid.New(), EventID: &eventAIRegulations.ID, SourceID: sourceCNN.ID,
				Title:        "Landmark AI Bill Faces Uphill Battle as Tech Lobbyists Push Back",
				URL:          "https://cnn.com/2026/01/05/tech/ai-regulation-bill-congress",
				CanonicalURL: "https://cnn.com/2026/01/05/tech/ai-regulation-bill-congress",
				Summary:      "The proposed AI Safety and Transparency Act would require companies to disclose training data sources and conduct bias audits. Silicon Valley has mobilized against key provisions.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"Bill: AI Safety and Transparency Act", "Sponsors: Bipartisan coalition",
					"Requires training data disclosure", "Mandatory bias audits for high-risk AI",
					"Tech industry opposition growing",
				},
				AIBiasScore: -1, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
			},
			{
				ID: uuid.New(), EventID: &eventAIRegulations.ID, SourceID: sourceFox.ID,
				Title:        "New AI Regulations Could Cost Economy Billions, Industry Warns",
				URL:          "https://foxnews.com/2026/01/05/ai-regulation-economic-impact",
				CanonicalURL: "https://foxnews.com/2026/01/05/ai-regulation-economic-impact",
				Summary:      "Tech executives warn that proposed AI regulations could cost the industry $50 billion in compliance costs and push innovation overseas to less regulated markets.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"Estimated compliance cost: $50B", "Could affect 500,000 jobs",
					"China not implementing similar rules", "Small AI startups most affected",
					"Chamber of Commerce opposes bill",
				},
				AIBiasScore: 3, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
			},
			{
				ID: uuid.New(), EventID: &eventAIRegulations.ID, SourceID: sourceReuters.ID,
				Title:        "U.S. Lawmakers Unveil Bipartisan AI Regulation Framework",
				URL:          "https://reuters.com/2026/01/05/us-ai-regulation-bill",
				CanonicalURL: "https://reuters.com/2026/01/05/us-ai-regulation-bill",
				Summary:      "A bipartisan group of U.S. senators introduced legislation to regulate artificial intelligence, marking the first comprehensive federal approach to AI governance.",
				AtomicFacts: datatypes.JSONSlice[string]{
					"First comprehensive federal AI bill", "Bipartisan support from 8 senators",
					"Covers models above certain compute threshold", "Creates AI Safety Board",
					"90-day comment period begins",
				},
				AIBiasScore: 0, Status: types.ArticleStatusClustered,
				PublishedAt: time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
			},
		}
		if err := tx.WithContext(ctx).Create(&articles).Error; err != nil {
			return fmt.Errorf("error seeding articles: %w", err)
		}

		ss.log.Info("seeded fixture data",
			"topics", 2, "sources", 3, "events", 2, "articles", len(articles))
		return nil
	})
}

func (ss *seederService) Clear(ctx context.Context) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&types.Interaction{},
			&types.UserInsight{},
			&types.Article{},
			&types.Event{},
			&types.Source{},
			&types.Topic{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("error clearing table: %w", err)
			}
		}
		ss.log.Info("cleared all data")
		return nil
	})
}
