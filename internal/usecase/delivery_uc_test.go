//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
)

type deliveryFixture struct {
	uc       *deliveryUC
	articles *memArticleRepo
	users    *memUserRepo
	logs     *memAccessLogRepo
	packs    *memPackRepo
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	f := &deliveryFixture{
		articles: newMemArticleRepo(),
		users:    newMemUserRepo(),
		logs:     &memAccessLogRepo{},
		packs:    newMemPackRepo(),
	}
	f.uc = NewDeliveryUseCase(f.articles, f.users, f.logs, NewCatalogUseCase(f.articles, f.packs, newTestLogger()), &fakeTxManager{}, newTestLogger())
	return f
}

func (f *deliveryFixture) article(t *testing.T, premium bool, pdfURL *string) int64 {
	t.Helper()
	a, err := model.NewArticle("Title", "# body", "Agile", premium, false, pdfURL)
	require.NoError(t, err)
	require.NoError(t, f.articles.Save(context.Background(), nil, a))
	return a.ID
}

func TestDeliveryUC_FreeArticle(t *testing.T) {
	ctx := context.Background()
	f := newDeliveryFixture(t)
	f.users.put(&model.User{ID: "u", SubscriptionStatus: model.SubscriptionStatusFree})

	url := "https://cdn.example.com/a.pdf"
	withURL := f.article(t, false, &url)
	withoutURL := f.article(t, false, nil)

	got, err := f.uc.DownloadPDF(ctx, "u", withURL)
	require.NoError(t, err)
	assert.Equal(t, url, got)

	got, err = f.uc.DownloadPDF(ctx, "u", withoutURL)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderPDFURL, got)

	assert.Len(t, f.logs.rows, 2, "free downloads are logged too")
	assert.Equal(t, model.AccessLogPDFDownload, f.logs.rows[0].Type)
}

func TestDeliveryUC_PremiumGate(t *testing.T) {
	ctx := context.Background()

	t.Run("free user with no credits is refused with an upsell", func(t *testing.T) {
		f := newDeliveryFixture(t)
		require.NoError(t, f.packs.Save(ctx, nil, &model.PremiumPack{Name: "Pro Pack", Price: 499, PdfLimit: intPtr(5), AccessType: model.AccessTypeLimitedPDFs}))
		require.NoError(t, f.packs.Save(ctx, nil, &model.PremiumPack{Name: "Basic Pack", Price: 199, PdfLimit: intPtr(1), AccessType: model.AccessTypeLimitedPDFs}))
		f.users.put(&model.User{ID: "u", SubscriptionStatus: model.SubscriptionStatusFree})
		id := f.article(t, true, nil)

		_, err := f.uc.DownloadPDF(ctx, "u", id)
		require.ErrorIs(t, err, domain.ErrInsufficientCredits)
		var ce *domain.InsufficientCreditsError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "Basic Pack", ce.RequiredPack)
		assert.Empty(t, f.logs.rows, "no access log when the gate fails")
	})

	t.Run("credits are consumed one at a time", func(t *testing.T) {
		f := newDeliveryFixture(t)
		f.users.put(&model.User{ID: "u", SubscriptionStatus: model.SubscriptionStatusFree, PremiumCredits: 2})
		id := f.article(t, true, nil)

		_, err := f.uc.DownloadPDF(ctx, "u", id)
		require.NoError(t, err)
		u, _ := f.users.FindByID(ctx, nil, "u")
		assert.Equal(t, 1, u.PremiumCredits)
		assert.Len(t, f.logs.rows, 1)
	})

	t.Run("lifetime users are never decremented", func(t *testing.T) {
		f := newDeliveryFixture(t)
		f.users.put(&model.User{ID: "u", SubscriptionStatus: model.SubscriptionStatusLifetime, PremiumCredits: model.UnlimitedCredits})
		id := f.article(t, true, nil)

		for i := 0; i < 3; i++ {
			_, err := f.uc.DownloadPDF(ctx, "u", id)
			require.NoError(t, err)
		}
		u, _ := f.users.FindByID(ctx, nil, "u")
		assert.Equal(t, model.UnlimitedCredits, u.PremiumCredits)
		assert.Len(t, f.logs.rows, 3)
	})

	t.Run("refusal without a catalog has no upsell", func(t *testing.T) {
		f := newDeliveryFixture(t)
		f.packs.listErr = errors.New("db down")
		f.users.put(&model.User{ID: "u", SubscriptionStatus: model.SubscriptionStatusPremium})
		id := f.article(t, true, nil)

		_, err := f.uc.DownloadPDF(ctx, "u", id)
		var ce *domain.InsufficientCreditsError
		require.True(t, errors.As(err, &ce))
		assert.Empty(t, ce.RequiredPack)
	})
}

func TestDeliveryUC_Errors(t *testing.T) {
	ctx := context.Background()
	f := newDeliveryFixture(t)

	_, err := f.uc.DownloadPDF(ctx, "", 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.DownloadPDF(ctx, "u", 404)
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}
