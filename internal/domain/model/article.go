package model

import (
	"strings"
	"time"

	"projectnest/internal/domain"
)

// Article is a catalog entry. Rows are immutable once stored.
type Article struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"` // markdown
	Category      string    `json:"category"`
	IsPremium     bool      `json:"isPremium"`
	PdfURL        *string   `json:"pdfUrl"`
	GeneratedByAI bool      `json:"generatedByAi"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ArticleFilter narrows ListArticles. Empty fields are ignored.
type ArticleFilter struct {
	Category string
	Search   string
}

// NewArticle validates the required fields and returns an unsaved article.
func NewArticle(title, content, category string, isPremium, generatedByAI bool, pdfURL *string) (*Article, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" || strings.TrimSpace(content) == "" || category == "" {
		return nil, domain.ErrInvalidArgument
	}
	if pdfURL != nil && strings.TrimSpace(*pdfURL) == "" {
		pdfURL = nil
	}
	return &Article{
		Title:         title,
		Content:       content,
		Category:      category,
		IsPremium:     isPremium,
		PdfURL:        pdfURL,
		GeneratedByAI: generatedByAI,
		CreatedAt:     time.Now(),
	}, nil
}

func (a *Article) IsZero() bool { return a == nil || a.ID == 0 }
