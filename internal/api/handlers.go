package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"NewsRater/internal/ports"
	"NewsRater/internal/rating"
	"NewsRater/internal/usecase"
)

// Handler handles HTTP requests for the rating API.
type Handler struct {
	articles   ports.ArticleRepository
	ratings    ports.RatingRepository
	rater      *usecase.Rater
	summarizer ports.Summarizer
	logger     *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	articles ports.ArticleRepository,
	ratings ports.RatingRepository,
	rater *usecase.Rater,
	summarizer ports.Summarizer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		articles:   articles,
		ratings:    ratings,
		rater:      rater,
		summarizer: summarizer,
		logger:     logger,
	}
}

// AnalyzeRequest asks for a bias rating of a stored article.
type AnalyzeRequest struct {
	ArticleID string `json:"article_id" binding:"required"`
}

// SummarizeRequest carries raw article text to summarize.
type SummarizeRequest struct {
	ArticleText string `json:"article_text" binding:"required"`
}

// Analyze handles POST /api/v1/ratings/analyze. It fetches the article
// text, runs the dimension batch, persists the result, and returns it.
// An existing rating is returned as-is; re-rating costs real money.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	article, err := h.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.logger.Error("load article failed", "article_id", req.ArticleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}

	if strings.TrimSpace(article.RawText) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "article has no text content to analyze"})
		return
	}

	if existing, err := h.ratings.GetByArticle(ctx, article.ID); err == nil {
		h.logger.Info("rating already exists", "article_id", article.ID)
		c.JSON(http.StatusOK, toRatingResponse(existing))
		return
	} else if !errors.Is(err, ports.ErrNotFound) {
		h.logger.Error("load rating failed", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rating"})
		return
	}

	result, err := h.rater.Rate(ctx, article.ID, article.RawText)
	if err != nil {
		status, msg := ratingErrorStatus(err)
		h.logger.Error("bias rating failed", "article_id", article.ID, "error", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if err := h.ratings.Save(ctx, result); err != nil {
		h.logger.Error("persist rating failed", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store rating"})
		return
	}

	h.logger.Info("article rated",
		"article_id", article.ID,
		"dimensions", len(result.DimensionScores),
	)

	c.JSON(http.StatusOK, toRatingResponse(result))
}

// GetRating handles GET /api/v1/articles/:id/rating. A 404 here means no
// rating was produced yet, which consumers must show differently from a
// failed analysis.
func (h *Handler) GetRating(c *gin.Context) {
	articleID := c.Param("id")
	if articleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article id is required"})
		return
	}

	result, err := h.ratings.GetByArticle(c.Request.Context(), articleID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no rating for article"})
			return
		}
		h.logger.Error("load rating failed", "article_id", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rating"})
		return
	}

	c.JSON(http.StatusOK, toRatingResponse(result))
}

// LatestArticles handles GET /api/v1/articles/latest. Bias score filters
// are accepted on the published [-1, 1] scale and translated to the raw
// scale before hitting storage.
func (h *Handler) LatestArticles(c *gin.Context) {
	filter := ports.LatestFilter{Limit: 20}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	if v := c.Query("min_bias_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			raw := rating.Normalize(f, -1, 1, 1, 7)
			filter.MinScore = &raw
		}
	}
	if v := c.Query("max_bias_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			raw := rating.Normalize(f, -1, 1, 1, 7)
			filter.MaxScore = &raw
		}
	}

	items, err := h.articles.Latest(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list articles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	response := make([]ArticleResponse, len(items))
	for i, item := range items {
		response[i] = toArticleResponse(item)
	}

	c.JSON(http.StatusOK, ArticleListResponse{Articles: response, Total: len(response)})
}

// Summarize handles POST /api/v1/summarize.
func (h *Handler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.ArticleText) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "article text is required and cannot be empty"})
		return
	}

	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summarization is not configured"})
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.ArticleText)
	if err != nil {
		h.logger.Error("summarization failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "summary generation failed"})
		return
	}

	if strings.TrimSpace(summary) == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "summarization returned empty summary"})
		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{Summary: summary})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "newsrater",
	})
}

// ratingErrorStatus maps the rating error taxonomy onto HTTP statuses:
// bad input is the client's to fix, everything upstream is a bad gateway.
func ratingErrorStatus(err error) (int, string) {
	var invalid *rating.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, invalid.Error()
	}

	var batch *rating.BatchError
	if errors.As(err, &batch) {
		return http.StatusBadGateway, "bias rating failed: " + batch.Error()
	}

	return http.StatusBadGateway, "bias rating failed"
}
