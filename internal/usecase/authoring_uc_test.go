//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectnest/internal/domain"
	"projectnest/internal/domain/ports/adapter"
)

func TestAuthoringUC_Generate(t *testing.T) {
	ctx := context.Background()
	articles := newMemArticleRepo()
	ai := &mockAI{}
	uc := NewAuthoringUseCase(articles, ai, "gemini-2.5-flash", nil, 0, newTestLogger())

	a, err := uc.Generate(ctx, "u", " Scrum Roles ", "Agile")
	require.NoError(t, err)
	assert.Equal(t, "Scrum Roles", a.Title)
	assert.Equal(t, "Agile", a.Category)
	assert.True(t, a.IsPremium)
	assert.True(t, a.GeneratedByAI)
	assert.Nil(t, a.PdfURL)
	assert.Equal(t, "# Generated\n\nbody", a.Content)

	require.Len(t, ai.lastMessages, 1)
	assert.Equal(t,
		`Write a comprehensive project management article about "Scrum Roles" in the category "Agile". Format as Markdown.`,
		ai.lastMessages[0].Content)

	stored, err := articles.FindByID(ctx, nil, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Content, stored.Content)
}

func TestAuthoringUC_Generate_Validation(t *testing.T) {
	articles := newMemArticleRepo()
	ai := &mockAI{}
	uc := NewAuthoringUseCase(articles, ai, "", nil, 0, newTestLogger())

	for _, in := range [][2]string{{"", "Agile"}, {"Topic", "  "}} {
		_, err := uc.Generate(context.Background(), "u", in[0], in[1])
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.Zero(t, ai.calls, "provider is not called for invalid input")
}

func TestAuthoringUC_Generate_ProviderFailures(t *testing.T) {
	cases := map[string]func(context.Context, string, []adapter.Message) (string, adapter.Usage, error){
		"provider error": func(context.Context, string, []adapter.Message) (string, adapter.Usage, error) {
			return "", adapter.Usage{}, errors.New("quota exhausted")
		},
		"empty text": func(context.Context, string, []adapter.Message) (string, adapter.Usage, error) {
			return "   ", adapter.Usage{}, nil
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			articles := newMemArticleRepo()
			uc := NewAuthoringUseCase(articles, &mockAI{ChatWithUsageFunc: fn}, "", nil, 0, newTestLogger())

			_, err := uc.Generate(context.Background(), "u", "Topic", "Agile")
			require.ErrorIs(t, err, domain.ErrProvider)
			n, _ := articles.Count(context.Background(), nil)
			assert.Zero(t, n, "nothing stored on provider failure")
		})
	}

	t.Run("provider message is carried", func(t *testing.T) {
		uc := NewAuthoringUseCase(newMemArticleRepo(), &mockAI{ChatWithUsageFunc: cases["provider error"]}, "", nil, 0, newTestLogger())
		_, err := uc.Generate(context.Background(), "u", "Topic", "Agile")
		assert.Contains(t, err.Error(), "quota exhausted")
	})
}

func TestAuthoringUC_Generate_RateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("denied", func(t *testing.T) {
		lim := &mockLimiter{AllowFunc: func(context.Context, string, int, time.Duration) (bool, error) { return false, nil }}
		ai := &mockAI{}
		uc := NewAuthoringUseCase(newMemArticleRepo(), ai, "", lim, 5, newTestLogger())

		_, err := uc.Generate(ctx, "u-9", "Topic", "Agile")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.Zero(t, ai.calls)
		assert.Equal(t, []string{"rate_limit:u-9:generate"}, lim.keys)
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		lim := &mockLimiter{AllowFunc: func(context.Context, string, int, time.Duration) (bool, error) {
			return false, errors.New("redis down")
		}}
		uc := NewAuthoringUseCase(newMemArticleRepo(), &mockAI{}, "", lim, 5, newTestLogger())
		a, err := uc.Generate(ctx, "u", "Topic", "Agile")
		require.NoError(t, err)
		assert.True(t, a.IsPremium)
	})

	t.Run("zero limit disables the check", func(t *testing.T) {
		lim := &mockLimiter{}
		uc := NewAuthoringUseCase(newMemArticleRepo(), &mockAI{}, "", lim, 0, newTestLogger())
		_, err := uc.Generate(ctx, "u", "Topic", "Agile")
		require.NoError(t, err)
		assert.Empty(t, lim.keys)
	})
}
