package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/prismnews/prism-backend/internal/bias"
	"github.com/prismnews/prism-backend/internal/clients/openai"
	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// SummarizerService turns clustered articles into perspective summaries and
// users into personalized insights via the text-generation API. It implements
// Generator for the insight cache.
type SummarizerService interface {
	Generator
	GenerateEventSummaries(ctx context.Context, event *types.Event, articles []*ArticleWithSource) (*types.PerspectiveSummaries, string, error)
}

type summarizerService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewSummarizerService(log *logger.Logger, ai openai.Client) SummarizerService {
	serviceLog := log.With("service", "SummarizerService")
	return &summarizerService{log: serviceLog, ai: ai}
}

var summariesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"center":        map[string]any{"type": "string"},
		"left":          map[string]any{"type": "string"},
		"right":         map[string]any{"type": "string"},
		"global_impact": map[string]any{"type": "string"},
	},
	"required":             []string{"center", "left", "right", "global_impact"},
	"additionalProperties": false,
}

var insightSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"personal_impact": map[string]any{"type": "string"},
		"actionable_tip":  map[string]any{"type": "string"},
	},
	"required":             []string{"personal_impact", "actionable_tip"},
	"additionalProperties": false,
}

func (ss *summarizerService) GenerateEventSummaries(ctx context.Context, event *types.Event, articles []*ArticleWithSource) (*types.PerspectiveSummaries, string, error) {
	if ss.ai == nil {
		return nil, "", fmt.Errorf("text-generation client not configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Event: %s\n\n", event.Title)
	for _, a := range articles {
		leaning := "unknown leaning"
		if a.Source != nil {
			leaning = bias.Category(a.Source.BaseBias)
		}
		fmt.Fprintf(&sb, "- [%s] %s\n", leaning, a.Title)
		for _, fact := range a.AtomicFacts {
			fmt.Fprintf(&sb, "  * %s\n", fact)
		}
	}

	system := "You are a news analyst. Given articles covering one event, tagged " +
		"with their outlet's political leaning, write three short neutral-voiced " +
		"summaries of how center, left and right coverage frames the event, plus " +
		"a one-sentence statement of the event's wider impact. Leave left or " +
		"right empty when no articles from that leaning are present."

	out, err := ss.ai.GenerateJSON(ctx, system, sb.String(), "event_summaries", summariesSchema)
	if err != nil {
		return nil, "", fmt.Errorf("error generating event summaries: %w", err)
	}

	summaries := &types.PerspectiveSummaries{
		Center: stringField(out, "center"),
		Left:   stringField(out, "left"),
		Right:  stringField(out, "right"),
	}
	if summaries.Center == "" {
		return nil, "", fmt.Errorf("summary generation returned empty center perspective")
	}
	return summaries, stringField(out, "global_impact"), nil
}

func (ss *summarizerService) GeneratePersonalInsight(ctx context.Context, user *types.User, event *types.Event) (*types.InsightContent, error) {
	if ss.ai == nil {
		return nil, fmt.Errorf("text-generation client not configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Event: %s\n", event.Title)
	summaries := event.PerspectiveSummaries.Data()
	if summaries.Center != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", summaries.Center)
	}
	if event.GlobalImpact != "" {
		fmt.Fprintf(&sb, "Impact: %s\n", event.GlobalImpact)
	}

	sb.WriteString("\nReader:\n")
	profile := user.Profile.Data()
	if profile.Location != nil {
		fmt.Fprintf(&sb, "- location: %s\n", *profile.Location)
	}
	if profile.Job != nil {
		fmt.Fprintf(&sb, "- occupation: %s\n", *profile.Job)
	}
	if pc := user.PrivateContext.Data(); pc != nil {
		if pc.IncomeBracket != nil {
			fmt.Fprintf(&sb, "- income bracket: %s\n", *pc.IncomeBracket)
		}
		if len(pc.Concerns) > 0 {
			fmt.Fprintf(&sb, "- concerns: %s\n", strings.Join(pc.Concerns, ", "))
		}
		if len(pc.Interests) > 0 {
			fmt.Fprintf(&sb, "- interests: %s\n", strings.Join(pc.Interests, ", "))
		}
	}

	system := "You write a two-part personalized note about a news event: how it " +
		"concretely affects this reader, and one actionable step they could take. " +
		"Be specific to the reader's circumstances, never condescending."

	out, err := ss.ai.GenerateJSON(ctx, system, sb.String(), "personal_insight", insightSchema)
	if err != nil {
		return nil, fmt.Errorf("error generating personal insight: %w", err)
	}

	content := &types.InsightContent{
		PersonalImpact: stringField(out, "personal_impact"),
		ActionableTip:  stringField(out, "actionable_tip"),
	}
	if content.PersonalImpact == "" {
		return nil, fmt.Errorf("insight generation returned empty personal impact")
	}
	return content, nil
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
