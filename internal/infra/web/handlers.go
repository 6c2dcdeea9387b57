package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/usecase"
)

// ===== Articles =====

type createArticleRequest struct {
	Title         string  `json:"title" validate:"required,max=300"`
	Content       string  `json:"content" validate:"required"`
	Category      string  `json:"category" validate:"required,max=100"`
	IsPremium     bool    `json:"isPremium"`
	PdfURL        *string `json:"pdfUrl"`
	GeneratedByAI bool    `json:"generatedByAi"`
}

type generateRequest struct {
	Topic    string `json:"topic" validate:"required,max=300"`
	Category string `json:"category" validate:"required,max=100"`
}

// articleDetail is the single-article payload: the stored row plus rendered HTML.
type articleDetail struct {
	*model.Article
	ContentHTML string `json:"contentHtml"`
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	category, err := queryString(r, "category")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	search, err := queryString(r, "search")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	articles, err := s.catalog.ListArticles(r.Context(), model.ArticleFilter{Category: category, Search: search})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	a, err := s.catalog.GetArticle(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	out := articleDetail{Article: a}
	if s.renderer != nil {
		html, err := s.renderer.Render(a.Content)
		if err != nil {
			s.log.Warn().Err(err).Int64("article_id", a.ID).Msg("markdown render failed")
		} else {
			out.ContentHTML = html
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	a, err := s.catalog.CreateArticle(r.Context(), usecase.ArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		Category:      req.Category,
		IsPremium:     req.IsPremium,
		GeneratedByAI: req.GeneratedByAI,
		PdfURL:        req.PdfURL,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) generateArticle(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())

	var req generateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	a, err := s.authoring.Generate(r.Context(), p.UserID, req.Topic, req.Category)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) downloadPDF(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	url, err := s.delivery.DownloadPDF(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// ===== Packs =====

func (s *Server) listPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.catalog.ListPacks(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (s *Server) getPack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	p, err := s.catalog.GetPack(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ===== Payments =====

type createOrderRequest struct {
	PackID int64 `json:"packId" validate:"required,gt=0"`
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	PackID            int64  `json:"packId" validate:"required,gt=0"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())

	var req createOrderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	order, err := s.payments.CreateOrder(r.Context(), p.UserID, req.PackID)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// verifyPayment runs with an optional session: the signature is checked before
// the caller's identity so a forged callback never reaches the ledger.
func (s *Server) verifyPayment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())

	var req verifyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	_, err := s.payments.Verify(r.Context(), p.UserID, usecase.VerifyInput{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		PackID:    req.PackID,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ===== User / session =====

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	u, err := s.ledger.GetUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

type devSessionRequest struct {
	ID       string `json:"id" validate:"required,max=255"`
	Username string `json:"username" validate:"max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// devSession stands in for the external identity provider in local development.
func (s *Server) devSession(w http.ResponseWriter, r *http.Request) {
	var req devSessionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	u, err := s.ledger.EnsureUser(r.Context(), req.ID, req.Username, req.Email)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	token, err := s.auth.Mint(w, Principal{UserID: u.ID, Username: u.Username, Email: u.Email})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}{Token: token, User: u})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("health check failed")
			writeMessage(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, domain.ErrNotFound.Error())
}
