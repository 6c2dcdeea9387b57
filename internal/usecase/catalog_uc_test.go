//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
)

func newCatalog() (*catalogUC, *memArticleRepo, *memPackRepo) {
	articles := newMemArticleRepo()
	packs := newMemPackRepo()
	return NewCatalogUseCase(articles, packs, newTestLogger()), articles, packs
}

func TestCatalogUC_CreateAndGetArticle(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCatalog()

	a, err := uc.CreateArticle(ctx, ArticleInput{Title: "Kanban", Content: "# Kanban", Category: "Agile"})
	if err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	if a.ID == 0 || a.IsPremium || a.GeneratedByAI {
		t.Fatalf("unexpected article: %+v", a)
	}

	got, err := uc.GetArticle(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != "Kanban" {
		t.Errorf("expected title Kanban, got %q", got.Title)
	}

	if _, err := uc.GetArticle(ctx, 999); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
	if _, err := uc.GetArticle(ctx, 0); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound for id 0, got %v", err)
	}
}

func TestCatalogUC_CreateArticle_Validation(t *testing.T) {
	uc, articles, _ := newCatalog()
	_, err := uc.CreateArticle(context.Background(), ArticleInput{Title: "x", Content: "", Category: "Agile"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if n, _ := articles.Count(context.Background(), nil); n != 0 {
		t.Errorf("nothing should be stored, got %d rows", n)
	}
}

func TestCatalogUC_ListArticles(t *testing.T) {
	ctx := context.Background()
	uc, articles, _ := newCatalog()

	base := time.Now().Add(-time.Hour)
	for i, in := range []model.Article{
		{Title: "Sprint Planning", Content: "plan", Category: "Agile"},
		{Title: "Risk Register", Content: "identify RISKS early", Category: "Risk"},
		{Title: "Retrospectives", Content: "look back", Category: "Agile"},
	} {
		a := in
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := articles.Save(ctx, nil, &a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("newest first without filters", func(t *testing.T) {
		got, err := uc.ListArticles(ctx, model.ArticleFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 || got[0].Title != "Retrospectives" || got[2].Title != "Sprint Planning" {
			t.Fatalf("unexpected order: %v", titles(got))
		}
		again, _ := uc.ListArticles(ctx, model.ArticleFilter{})
		if len(again) != len(got) {
			t.Fatal("listing twice must be stable")
		}
		for i := range got {
			if got[i].ID != again[i].ID {
				t.Fatalf("order changed between calls: %v vs %v", titles(got), titles(again))
			}
		}
	})

	t.Run("category is exact match", func(t *testing.T) {
		got, _ := uc.ListArticles(ctx, model.ArticleFilter{Category: " Agile "})
		if len(got) != 2 {
			t.Fatalf("expected 2 agile articles, got %v", titles(got))
		}
	})

	t.Run("search matches content case-insensitively", func(t *testing.T) {
		got, _ := uc.ListArticles(ctx, model.ArticleFilter{Search: "risks"})
		if len(got) != 1 || got[0].Title != "Risk Register" {
			t.Fatalf("unexpected search result: %v", titles(got))
		}
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		got, err := uc.ListArticles(ctx, model.ArticleFilter{Category: "Finance"})
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list, got %v (%v)", got, err)
		}
	})
}

func TestCatalogUC_Seed(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCatalog()

	res, err := uc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if res.Packs != 5 || res.Articles != 2 {
		t.Fatalf("unexpected seed result: %+v", res)
	}

	packs, _ := uc.ListPacks(ctx)
	if packs[0].Name != "Basic Pack" || packs[len(packs)-1].AccessType != model.AccessTypeLifetime {
		t.Errorf("unexpected pack ordering: first=%s last=%s", packs[0].Name, packs[len(packs)-1].Name)
	}
	if packs[len(packs)-1].PdfLimit != nil {
		t.Error("lifetime pack must have no pdf limit")
	}

	cheap, err := uc.CheapestPack(ctx)
	if err != nil || cheap.Name != "Basic Pack" {
		t.Errorf("expected Basic Pack as cheapest, got %v (%v)", cheap, err)
	}

	res, err = uc.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if res.Packs != 0 || res.Articles != 0 {
		t.Errorf("second Seed must be a no-op, got %+v", res)
	}
}

func TestCatalogUC_CheapestPack_Empty(t *testing.T) {
	uc, _, _ := newCatalog()
	if _, err := uc.CheapestPack(context.Background()); !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

func TestCatalogUC_CreatePack_Validation(t *testing.T) {
	uc, _, _ := newCatalog()
	_, err := uc.CreatePack(context.Background(), PackInput{Name: "Broken", Price: 100, AccessType: model.AccessTypeLimitedPDFs})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func titles(as []*model.Article) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}
