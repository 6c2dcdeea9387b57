//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/usecase"
)

// --- Mock use cases ---

type mockCatalog struct {
	usecase.CatalogUseCase // embed for forward compatibility

	ListArticlesFunc func(ctx context.Context, f model.ArticleFilter) ([]*model.Article, error)
	GetArticleFunc   func(ctx context.Context, id int64) (*model.Article, error)
	CreateFunc       func(ctx context.Context, in usecase.ArticleInput) (*model.Article, error)
	ListPacksFunc    func(ctx context.Context) ([]*model.PremiumPack, error)
	GetPackFunc      func(ctx context.Context, id int64) (*model.PremiumPack, error)

	lastFilter model.ArticleFilter
}

func (m *mockCatalog) ListArticles(ctx context.Context, f model.ArticleFilter) ([]*model.Article, error) {
	m.lastFilter = f
	if m.ListArticlesFunc != nil {
		return m.ListArticlesFunc(ctx, f)
	}
	return []*model.Article{}, nil
}

func (m *mockCatalog) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	if m.GetArticleFunc != nil {
		return m.GetArticleFunc(ctx, id)
	}
	return nil, domain.ErrArticleNotFound
}

func (m *mockCatalog) CreateArticle(ctx context.Context, in usecase.ArticleInput) (*model.Article, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return model.NewArticle(in.Title, in.Content, in.Category, in.IsPremium, in.GeneratedByAI, in.PdfURL)
}

func (m *mockCatalog) ListPacks(ctx context.Context) ([]*model.PremiumPack, error) {
	if m.ListPacksFunc != nil {
		return m.ListPacksFunc(ctx)
	}
	return []*model.PremiumPack{}, nil
}

func (m *mockCatalog) GetPack(ctx context.Context, id int64) (*model.PremiumPack, error) {
	if m.GetPackFunc != nil {
		return m.GetPackFunc(ctx, id)
	}
	return nil, domain.ErrPackNotFound
}

// mockLedger keeps users in memory so the guard's upsert is observable.
type mockLedger struct {
	mu     sync.Mutex
	users  map[string]*model.User
	getErr error
}

func newMockLedger() *mockLedger { return &mockLedger{users: map[string]*model.User{}} }

func (m *mockLedger) EnsureUser(_ context.Context, id, username, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Username, u.Email = username, email
		return u, nil
	}
	u, err := model.NewUser(id, username, email)
	if err != nil {
		return nil, err
	}
	m.users[id] = u
	return u, nil
}

func (m *mockLedger) GetUser(_ context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type mockPayments struct {
	CreateOrderFunc func(ctx context.Context, userID string, packID int64) (*model.Order, error)
	VerifyFunc      func(ctx context.Context, userID string, in usecase.VerifyInput) (*usecase.VerifyResult, error)

	lastVerifyUser string
}

func (m *mockPayments) CreateOrder(ctx context.Context, userID string, packID int64) (*model.Order, error) {
	return m.CreateOrderFunc(ctx, userID, packID)
}

func (m *mockPayments) Verify(ctx context.Context, userID string, in usecase.VerifyInput) (*usecase.VerifyResult, error) {
	m.lastVerifyUser = userID
	return m.VerifyFunc(ctx, userID, in)
}

func (m *mockPayments) ExpireStale(context.Context, time.Time) (int64, error) { return 0, nil }

type mockDelivery struct {
	DownloadFunc func(ctx context.Context, userID string, articleID int64) (string, error)
}

func (m *mockDelivery) DownloadPDF(ctx context.Context, userID string, articleID int64) (string, error) {
	return m.DownloadFunc(ctx, userID, articleID)
}

type mockAuthoring struct {
	GenerateFunc func(ctx context.Context, userID, topic, category string) (*model.Article, error)
}

func (m *mockAuthoring) Generate(ctx context.Context, userID, topic, category string) (*model.Article, error) {
	return m.GenerateFunc(ctx, userID, topic, category)
}

type stubRenderer struct{ err error }

func (s stubRenderer) Render(md string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<p>" + md + "</p>", nil
}
