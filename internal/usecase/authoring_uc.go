package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/adapter"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/logging"
	"projectnest/internal/infra/metrics"
	red "projectnest/internal/infra/redis"
)

// Compile-time check
var _ AuthoringUseCase = (*authoringUC)(nil)

type AuthoringUseCase interface {
	// Generate asks the AI provider for an article on topic and stores it as premium content.
	Generate(ctx context.Context, userID, topic, category string) (*model.Article, error)
}

type authoringUC struct {
	articles repository.ArticleRepository
	ai       adapter.AIServiceAdapter
	model    string
	limiter  red.Limiter // nil disables rate limiting
	perHour  int
	log      *zerolog.Logger
}

func NewAuthoringUseCase(
	articles repository.ArticleRepository,
	ai adapter.AIServiceAdapter,
	modelName string,
	limiter red.Limiter,
	perHour int,
	logger *zerolog.Logger,
) *authoringUC {
	return &authoringUC{
		articles: articles,
		ai:       ai,
		model:    modelName,
		limiter:  limiter,
		perHour:  perHour,
		log:      logger,
	}
}

// BuildPrompt is the fixed instruction sent to the provider.
func BuildPrompt(topic, category string) string {
	return fmt.Sprintf(`Write a comprehensive project management article about "%s" in the category "%s". Format as Markdown.`, topic, category)
}

func (a *authoringUC) Generate(ctx context.Context, userID, topic, category string) (*model.Article, error) {
	defer logging.TraceDuration(a.log, "AuthoringUC.Generate")()

	topic = strings.TrimSpace(topic)
	category = strings.TrimSpace(category)
	if topic == "" || category == "" {
		return nil, fmt.Errorf("topic and category are required: %w", domain.ErrInvalidArgument)
	}

	if err := a.checkRate(ctx, userID); err != nil {
		return nil, err
	}

	msgs := []adapter.Message{{Role: "user", Content: BuildPrompt(topic, category)}}
	tokensIn, err := a.ai.CountTokens(ctx, a.model, msgs)
	if err != nil {
		a.log.Debug().Err(err).Msg("token count unavailable")
	}

	start := time.Now()
	text, usage, err := a.ai.ChatWithUsage(ctx, a.model, msgs)
	latency := int(time.Since(start).Milliseconds())
	if usage.PromptTokens > 0 {
		tokensIn = usage.PromptTokens
	}
	if err != nil {
		metrics.ObserveGeneration(a.ai.Name(), a.model, tokensIn, 0, latency, false)
		logging.With(ctx, a.log).Error().Err(err).Str("provider", a.ai.Name()).Msg("article generation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ObserveGeneration(a.ai.Name(), a.model, tokensIn, 0, latency, false)
		return nil, fmt.Errorf("%w: empty response from %s", domain.ErrProvider, a.ai.Name())
	}
	metrics.ObserveGeneration(a.ai.Name(), a.model, tokensIn, usage.CompletionTokens, latency, true)

	article, err := model.NewArticle(topic, text, category, true, true, nil)
	if err != nil {
		return nil, err
	}
	if err := a.articles.Save(ctx, repository.NoTX, article); err != nil {
		return nil, err
	}

	logging.With(ctx, a.log).Info().
		Int64("article_id", article.ID).
		Str("provider", a.ai.Name()).
		Int("latency_ms", latency).
		Int("tokens_out", usage.CompletionTokens).
		Msg("article generated")
	return article, nil
}

// checkRate applies the per-user hourly limit. Limiter failures let the request through.
func (a *authoringUC) checkRate(ctx context.Context, userID string) error {
	if a.limiter == nil || a.perHour <= 0 {
		return nil
	}
	ok, err := a.limiter.Allow(ctx, red.UserActionKey(userID, "generate"), a.perHour, time.Hour)
	if err != nil {
		a.log.Warn().Err(err).Msg("rate limiter unavailable")
		return nil
	}
	if !ok {
		metrics.IncGenerateRateLimited()
		return fmt.Errorf("%w: at most %d generations per hour", domain.ErrRateLimited, a.perHour)
	}
	return nil
}
