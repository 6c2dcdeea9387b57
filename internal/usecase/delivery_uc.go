package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/logging"
	"projectnest/internal/infra/metrics"
)

// PlaceholderPDFURL is returned for articles that have no stored asset yet.
const PlaceholderPDFURL = "#"

// Compile-time check
var _ DeliveryUseCase = (*deliveryUC)(nil)

type DeliveryUseCase interface {
	// DownloadPDF gates the article's PDF by entitlement, consumes a credit when the
	// article is premium and the user is not lifetime, and logs the access.
	// A refused download returns *domain.InsufficientCreditsError.
	DownloadPDF(ctx context.Context, userID string, articleID int64) (string, error)
}

type deliveryUC struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
	logs     repository.AccessLogRepository
	catalog  CatalogUseCase
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewDeliveryUseCase(
	articles repository.ArticleRepository,
	users repository.UserRepository,
	logs repository.AccessLogRepository,
	catalog CatalogUseCase,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *deliveryUC {
	return &deliveryUC{articles: articles, users: users, logs: logs, catalog: catalog, tm: tm, log: logger}
}

func (d *deliveryUC) DownloadPDF(ctx context.Context, userID string, articleID int64) (string, error) {
	defer logging.TraceDuration(d.log, "DeliveryUC.DownloadPDF")()

	if userID == "" {
		return "", domain.ErrUnauthorized
	}

	var url string
	result := "free"
	err := d.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		article, err := d.articles.FindByID(ctx, tx, articleID)
		if err != nil {
			return err
		}

		if article.IsPremium {
			u, err := d.users.FindByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			if !u.CanDownloadPremium() {
				return domain.ErrInsufficientCredits
			}
			if !u.IsLifetime() {
				// conditional decrement; a concurrent download may have taken the last credit
				if _, err := d.users.DecrementCredits(ctx, tx, userID); err != nil {
					return err
				}
			}
			result = "granted"
		}

		if err := d.logs.Append(ctx, tx, &model.AccessLog{
			UserID:    userID,
			ArticleID: article.ID,
			Type:      model.AccessLogPDFDownload,
			Timestamp: time.Now(),
		}); err != nil {
			return err
		}

		url = PlaceholderPDFURL
		if article.PdfURL != nil && *article.PdfURL != "" {
			url = *article.PdfURL
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			metrics.IncDownload("denied")
			return "", &domain.InsufficientCreditsError{RequiredPack: d.requiredPack(ctx)}
		}
		return "", err
	}

	metrics.IncDownload(result)
	logging.With(ctx, d.log).Info().Int64("article_id", articleID).Str("result", result).Msg("pdf download")
	return url, nil
}

// requiredPack names the cheapest pack for the upsell; empty when the catalog is unavailable.
func (d *deliveryUC) requiredPack(ctx context.Context) string {
	p, err := d.catalog.CheapestPack(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPackNotFound) {
			d.log.Warn().Err(err).Msg("cheapest pack lookup failed")
		}
		return ""
	}
	return p.Name
}
