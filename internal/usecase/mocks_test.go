//go:build !integration

package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/adapter"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/worker"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// -----------------------------
// Transactions
// -----------------------------

type fakeTx struct{}

// fakeTxManager runs fn inline. It does not roll back; tests only assert on
// paths where rejections happen before any write.
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (m *fakeTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx, fakeTx{})
}

// -----------------------------
// Articles
// -----------------------------

type memArticleRepo struct {
	mu      sync.Mutex
	seq     int64
	store   map[int64]*model.Article
	saveErr error
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{store: make(map[int64]*model.Article)}
}

func (r *memArticleRepo) Save(_ context.Context, _ repository.Tx, a *model.Article) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = r.seq
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.store[a.ID] = &cp
	return nil
}

func (r *memArticleRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.store[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memArticleRepo) List(_ context.Context, _ repository.Tx, f model.ArticleFilter) ([]*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Article, 0, len(r.store))
	q := strings.ToLower(f.Search)
	for _, a := range r.store {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Title), q) && !strings.Contains(strings.ToLower(a.Content), q) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memArticleRepo) Count(_ context.Context, _ repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store), nil
}

// -----------------------------
// Packs
// -----------------------------

type memPackRepo struct {
	mu      sync.Mutex
	seq     int64
	store   map[int64]*model.PremiumPack
	listErr error
}

func newMemPackRepo() *memPackRepo {
	return &memPackRepo{store: make(map[int64]*model.PremiumPack)}
}

func (r *memPackRepo) Save(_ context.Context, _ repository.Tx, p *model.PremiumPack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		r.seq++
		p.ID = r.seq
	}
	cp := *p
	r.store[p.ID] = &cp
	return nil
}

func (r *memPackRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.PremiumPack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return nil, domain.ErrPackNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPackRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.PremiumPack, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.PremiumPack, 0, len(r.store))
	for _, p := range r.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price == out[j].Price {
			return out[i].ID < out[j].ID
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}

func (r *memPackRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
}

// -----------------------------
// Users
// -----------------------------

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (r *memUserRepo) Upsert(_ context.Context, _ repository.Tx, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.store[u.ID]; ok {
		cur.Username = u.Username
		cur.Email = u.Email
		cur.UpdatedAt = time.Now()
		cp := *cur
		return &cp, nil
	}
	cp := *u
	r.store[u.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GrantSubscription(_ context.Context, _ repository.Tx, id string, status model.SubscriptionStatus, credits int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.SubscriptionStatus = status
	u.PremiumCredits = credits
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) DecrementCredits(_ context.Context, _ repository.Tx, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok || u.IsLifetime() || u.PremiumCredits <= 0 {
		return nil, domain.ErrInsufficientCredits
	}
	u.PremiumCredits--
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) put(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.store[u.ID] = &cp
}

// -----------------------------
// Payments
// -----------------------------

type memPaymentRepo struct {
	mu    sync.Mutex
	seq   int64
	store map[string]*model.Payment // by gateway order id
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.Payment)}
}

func (r *memPaymentRepo) Save(_ context.Context, _ repository.Tx, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[p.RazorpayOrderID]; ok {
		return domain.ErrAlreadyExists
	}
	r.seq++
	p.ID = r.seq
	cp := *p
	r.store[p.RazorpayOrderID] = &cp
	return nil
}

func (r *memPaymentRepo) FindByOrderID(_ context.Context, _ repository.Tx, orderID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[orderID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) MarkCompleted(_ context.Context, _ repository.Tx, id int64, gatewayPaymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.store {
		if p.ID == id {
			if !p.IsPending() {
				return false, nil
			}
			p.Status = model.PaymentStatusCompleted
			pid := gatewayPaymentID
			p.RazorpayPaymentID = &pid
			return true, nil
		}
	}
	return false, nil
}

func (r *memPaymentRepo) FailStalePending(_ context.Context, _ repository.Tx, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.store {
		if p.IsPending() && p.CreatedAt.Before(olderThan) {
			p.Status = model.PaymentStatusFailed
			n++
		}
	}
	return n, nil
}

// -----------------------------
// Access logs
// -----------------------------

type memAccessLogRepo struct {
	mu   sync.Mutex
	rows []model.AccessLog
}

func (r *memAccessLogRepo) Append(_ context.Context, _ repository.Tx, l *model.AccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, *l)
	return nil
}

func (r *memAccessLogRepo) CountByUser(_ context.Context, _ repository.Tx, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.rows {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

// -----------------------------
// Adapters
// -----------------------------

type mockAI struct {
	ChatWithUsageFunc func(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error)
	calls             int
	lastMessages      []adapter.Message
}

var _ adapter.AIServiceAdapter = (*mockAI)(nil)

func (m *mockAI) Name() string { return "mock" }

func (m *mockAI) CountTokens(_ context.Context, _ string, messages []adapter.Message) (int, error) {
	n := 0
	for _, msg := range messages {
		n += len(msg.Content) / 4
	}
	return n, nil
}

func (m *mockAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	s, _, err := m.ChatWithUsage(ctx, model, messages)
	return s, err
}

func (m *mockAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	m.calls++
	m.lastMessages = messages
	if m.ChatWithUsageFunc != nil {
		return m.ChatWithUsageFunc(ctx, model, messages)
	}
	return "# Generated\n\nbody", adapter.Usage{PromptTokens: 12, CompletionTokens: 40, TotalTokens: 52}, nil
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	keys      []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}

type mockEmail struct {
	mu   sync.Mutex
	sent []string // recipients
	err  error
}

func (m *mockEmail) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

type mockNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (m *mockNotifier) NotifyAdmins(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

// inlineSubmitter runs tasks synchronously so tests can assert on their effects.
type inlineSubmitter struct {
	kinds []string
	err   error
}

var _ worker.Submitter = (*inlineSubmitter)(nil)

func (s *inlineSubmitter) Submit(kind string, task worker.Task) error {
	if s.err != nil {
		return s.err
	}
	s.kinds = append(s.kinds, kind)
	return task(context.Background())
}
