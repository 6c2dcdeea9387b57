package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/logging"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// ArticleInput carries the fields of a new article.
type ArticleInput struct {
	Title         string
	Content       string
	Category      string
	IsPremium     bool
	GeneratedByAI bool
	PdfURL        *string
}

// PackInput carries the fields of a new premium pack.
type PackInput struct {
	Name       string
	Price      int64
	PdfLimit   *int
	AccessType model.AccessType
	Features   []string
}

type CatalogUseCase interface {
	ListArticles(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error)
	GetArticle(ctx context.Context, id int64) (*model.Article, error)
	CreateArticle(ctx context.Context, in ArticleInput) (*model.Article, error)

	// ListPacks returns the catalog ordered by ascending price.
	ListPacks(ctx context.Context) ([]*model.PremiumPack, error)
	GetPack(ctx context.Context, id int64) (*model.PremiumPack, error)
	// CheapestPack is the upsell shown when a download is refused.
	CheapestPack(ctx context.Context) (*model.PremiumPack, error)
	CreatePack(ctx context.Context, in PackInput) (*model.PremiumPack, error)

	// Seed fills empty pack and article tables with the default catalog.
	Seed(ctx context.Context) (SeedResult, error)
}

// SeedResult reports how many rows Seed inserted.
type SeedResult struct {
	Packs    int
	Articles int
}

type catalogUC struct {
	articles repository.ArticleRepository
	packs    repository.PremiumPackRepository
	log      *zerolog.Logger
}

func NewCatalogUseCase(articles repository.ArticleRepository, packs repository.PremiumPackRepository, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{articles: articles, packs: packs, log: logger}
}

func (c *catalogUC) ListArticles(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.ListArticles")()

	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return c.articles.List(ctx, repository.NoTX, filter)
}

func (c *catalogUC) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	if id <= 0 {
		return nil, domain.ErrArticleNotFound
	}
	return c.articles.FindByID(ctx, repository.NoTX, id)
}

func (c *catalogUC) CreateArticle(ctx context.Context, in ArticleInput) (*model.Article, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.CreateArticle")()

	a, err := model.NewArticle(in.Title, in.Content, in.Category, in.IsPremium, in.GeneratedByAI, in.PdfURL)
	if err != nil {
		return nil, fmt.Errorf("title, content and category are required: %w", err)
	}
	if err := c.articles.Save(ctx, repository.NoTX, a); err != nil {
		return nil, err
	}
	c.log.Info().Int64("article_id", a.ID).Str("category", a.Category).Bool("premium", a.IsPremium).Msg("article created")
	return a, nil
}

func (c *catalogUC) ListPacks(ctx context.Context) ([]*model.PremiumPack, error) {
	return c.packs.ListAll(ctx, repository.NoTX)
}

func (c *catalogUC) GetPack(ctx context.Context, id int64) (*model.PremiumPack, error) {
	if id <= 0 {
		return nil, domain.ErrPackNotFound
	}
	return c.packs.FindByID(ctx, repository.NoTX, id)
}

func (c *catalogUC) CheapestPack(ctx context.Context) (*model.PremiumPack, error) {
	packs, err := c.packs.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	if len(packs) == 0 {
		return nil, domain.ErrPackNotFound
	}
	return cheapest(packs), nil
}

func (c *catalogUC) CreatePack(ctx context.Context, in PackInput) (*model.PremiumPack, error) {
	p, err := model.NewPremiumPack(in.Name, in.Price, in.PdfLimit, in.AccessType, in.Features)
	if err != nil {
		return nil, fmt.Errorf("pack %q: %w", in.Name, err)
	}
	if err := c.packs.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *catalogUC) Seed(ctx context.Context) (SeedResult, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.Seed")()

	var res SeedResult
	packs, err := c.packs.ListAll(ctx, repository.NoTX)
	if err != nil {
		return res, err
	}
	if len(packs) == 0 {
		for _, in := range defaultPacks() {
			if _, err := c.CreatePack(ctx, in); err != nil {
				return res, err
			}
			res.Packs++
		}
	}

	n, err := c.articles.Count(ctx, repository.NoTX)
	if err != nil {
		return res, err
	}
	if n == 0 {
		for _, in := range defaultArticles() {
			if _, err := c.CreateArticle(ctx, in); err != nil {
				return res, err
			}
			res.Articles++
		}
	}

	c.log.Info().Int("packs", res.Packs).Int("articles", res.Articles).Msg("catalog seeded")
	return res, nil
}

// cheapest picks by price, then by id, without trusting the caller's ordering.
func cheapest(packs []*model.PremiumPack) *model.PremiumPack {
	best := packs[0]
	for _, p := range packs[1:] {
		if p.Price < best.Price || (p.Price == best.Price && p.ID < best.ID) {
			best = p
		}
	}
	return best
}

func intPtr(v int) *int { return &v }

func defaultPacks() []PackInput {
	return []PackInput{
		{Name: "Basic Pack", Price: 199, PdfLimit: intPtr(1), AccessType: model.AccessTypeLimitedPDFs, Features: []string{"1 PDF Download"}},
		{Name: "Standard Pack", Price: 349, PdfLimit: intPtr(2), AccessType: model.AccessTypeLimitedPDFs, Features: []string{"2 PDF Downloads"}},
		{Name: "Pro Pack", Price: 499, PdfLimit: intPtr(5), AccessType: model.AccessTypeLimitedPDFs, Features: []string{"5 PDF Downloads"}},
		{Name: "Power Pack", Price: 899, PdfLimit: intPtr(10), AccessType: model.AccessTypeLimitedPDFs, Features: []string{"10 PDF Downloads"}},
		{Name: "Lifetime Access", Price: 1999, AccessType: model.AccessTypeLifetime, Features: []string{"Unlimited PDF Downloads", "Lifetime Access"}},
	}
}

func defaultArticles() []ArticleInput {
	return []ArticleInput{
		{
			Title:    "10 Agile Best Practices",
			Content:  "# 10 Agile Best Practices\n\n1. Standups\n2. Sprints...",
			Category: "Agile",
		},
		{
			Title:         "Risk Management Strategies 2024",
			Content:       "# Risk Management\n\nIdentifying risks is key...",
			Category:      "Risk",
			IsPremium:     true,
			GeneratedByAI: true,
		},
	}
}
