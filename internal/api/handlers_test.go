package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
	"NewsRater/internal/prompts"
	"NewsRater/internal/usecase"
)

type stubOracle struct {
	response string
	err      error
}

func (o *stubOracle) Query(ctx context.Context, prompt string) (string, error) {
	return o.response, o.err
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, articleText string) (string, error) {
	return s.summary, s.err
}

type stubArticleRepo struct {
	articles map[string]domain.Article
	latest   []domain.ArticleWithRating
	filter   ports.LatestFilter
}

func (r *stubArticleRepo) AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (r *stubArticleRepo) Save(ctx context.Context, article domain.Article) error {
	return nil
}

func (r *stubArticleRepo) GetByID(ctx context.Context, id string) (domain.Article, error) {
	if a, ok := r.articles[id]; ok {
		return a, nil
	}
	return domain.Article{}, ports.ErrNotFound
}

func (r *stubArticleRepo) Latest(ctx context.Context, filter ports.LatestFilter) ([]domain.ArticleWithRating, error) {
	r.filter = filter
	return r.latest, nil
}

type stubRatingRepo struct {
	ratings map[string]domain.BiasRating
	saved   []domain.BiasRating
}

func (r *stubRatingRepo) Save(ctx context.Context, rating domain.BiasRating) error {
	r.saved = append(r.saved, rating)
	return nil
}

func (r *stubRatingRepo) GetByArticle(ctx context.Context, articleID string) (domain.BiasRating, error) {
	if b, ok := r.ratings[articleID]; ok {
		return b, nil
	}
	return domain.BiasRating{}, ports.ErrNotFound
}

type testEnv struct {
	router   *gin.Engine
	articles *stubArticleRepo
	ratings  *stubRatingRepo
}

func newTestEnv(t *testing.T, oracle ports.TextOracle, summarizer ports.Summarizer) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	articles := &stubArticleRepo{articles: map[string]domain.Article{}}
	ratings := &stubRatingRepo{ratings: map[string]domain.BiasRating{}}

	rater := usecase.NewRater(usecase.RaterDeps{
		Registry: prompts.Default(),
		Oracle:   oracle,
		Model:    "test-model",
		Logger:   logger,
	})

	router := gin.New()
	SetupRoutes(router, NewHandler(articles, ratings, rater, summarizer, logger))

	return &testEnv{router: router, articles: articles, ratings: ratings}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeRating(t *testing.T, rec *httptest.ResponseRecorder) RatingResponse {
	t.Helper()
	var resp RatingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode rating response: %v", err)
	}
	return resp
}

func TestAnalyzeUnknownArticle(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeMissingArticleID(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.postJSON(t, "/api/v1/ratings/analyze", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeEmptyArticleText(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)
	env.articles.articles["a1"] = domain.Article{ID: "a1", Title: "Empty", RawText: "   "}

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "a1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "5"}, nil)
	env.articles.articles["a1"] = domain.Article{ID: "a1", Title: "Story", RawText: "the full text"}

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "a1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeRating(t, rec)
	if resp.ArticleID != "a1" {
		t.Fatalf("unexpected article id %q", resp.ArticleID)
	}
	if len(resp.Scores) != 4 {
		t.Fatalf("expected 4 dimension scores, got %d", len(resp.Scores))
	}
	// Every dimension scored 5 on [1, 7], so the published score is 1/3.
	if resp.BiasScore == nil {
		t.Fatal("expected a bias score")
	}
	if diff := *resp.BiasScore - 1.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected bias score 1/3, got %v", *resp.BiasScore)
	}
	if len(env.ratings.saved) != 1 {
		t.Fatalf("expected rating persisted, got %d saves", len(env.ratings.saved))
	}
}

func TestAnalyzeReturnsExistingRating(t *testing.T) {
	env := newTestEnv(t, &stubOracle{err: errors.New("oracle must not be called")}, nil)
	env.articles.articles["a1"] = domain.Article{ID: "a1", Title: "Story", RawText: "text"}

	overall := 4.0
	env.ratings.ratings["a1"] = domain.BiasRating{
		ArticleID:       "a1",
		DimensionScores: map[string]float64{"partisan_bias": 4},
		OverallScore:    &overall,
		Model:           "earlier-model",
		EvaluatedAt:     time.Now().UTC(),
	}

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "a1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeRating(t, rec)
	if resp.Model != "earlier-model" {
		t.Fatalf("expected the stored rating back, got model %q", resp.Model)
	}
	if len(env.ratings.saved) != 0 {
		t.Fatal("existing rating must not be re-saved")
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	env := newTestEnv(t, &stubOracle{err: errors.New("provider unavailable")}, nil)
	env.articles.articles["a1"] = domain.Article{ID: "a1", Title: "Story", RawText: "text"}

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "a1"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.ratings.saved) != 0 {
		t.Fatal("no rating must be persisted on failure")
	}
}

func TestAnalyzeUnparsableResponse(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "I would rather not say"}, nil)
	env.articles.articles["a1"] = domain.Article{ID: "a1", Title: "Story", RawText: "text"}

	rec := env.postJSON(t, "/api/v1/ratings/analyze", AnalyzeRequest{ArticleID: "a1"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetRating(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.get(t, "/api/v1/articles/a1/rating")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before rating exists, got %d", rec.Code)
	}

	overall := 6.0
	env.ratings.ratings["a1"] = domain.BiasRating{
		ArticleID:       "a1",
		DimensionScores: map[string]float64{"partisan_bias": 6},
		OverallScore:    &overall,
		Model:           "test-model",
		EvaluatedAt:     time.Now().UTC(),
	}

	rec = env.get(t, "/api/v1/articles/a1/rating")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeRating(t, rec)
	if resp.BiasScore == nil {
		t.Fatal("expected a bias score")
	}
	if diff := *resp.BiasScore - 2.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected bias score 2/3, got %v", *resp.BiasScore)
	}
}

func TestLatestArticlesFilterTranslation(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)
	env.articles.latest = []domain.ArticleWithRating{
		{Article: domain.Article{ID: "a1", Title: "Story"}},
	}

	rec := env.get(t, "/api/v1/articles/latest?limit=5&offset=10&min_bias_score=-1&max_bias_score=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	filter := env.articles.filter
	if filter.Limit != 5 || filter.Offset != 10 {
		t.Fatalf("unexpected paging: limit=%d offset=%d", filter.Limit, filter.Offset)
	}
	if filter.MinScore == nil || *filter.MinScore != 1 {
		t.Fatalf("expected min score translated to 1, got %v", filter.MinScore)
	}
	if filter.MaxScore == nil || *filter.MaxScore != 4 {
		t.Fatalf("expected max score translated to 4, got %v", filter.MaxScore)
	}

	var resp ArticleListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if resp.Total != 1 || len(resp.Articles) != 1 {
		t.Fatalf("unexpected list payload: %+v", resp)
	}
}

func TestLatestArticlesIgnoresBadParams(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.get(t, "/api/v1/articles/latest?limit=0&offset=-3&min_bias_score=abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	filter := env.articles.filter
	if filter.Limit != 20 || filter.Offset != 0 || filter.MinScore != nil {
		t.Fatalf("expected defaults kept, got %+v", filter)
	}
}

func TestSummarize(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, &stubSummarizer{summary: "a short summary"})

	rec := env.postJSON(t, "/api/v1/summarize", SummarizeRequest{ArticleText: "long article text"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SummarizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode summarize response: %v", err)
	}
	if resp.Summary != "a short summary" {
		t.Fatalf("unexpected summary %q", resp.Summary)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, &stubSummarizer{summary: "x"})

	rec := env.postJSON(t, "/api/v1/summarize", map[string]string{"article_text": "   "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestSummarizeNotConfigured(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.postJSON(t, "/api/v1/summarize", SummarizeRequest{ArticleText: "text"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, &stubSummarizer{err: errors.New("provider down")})

	rec := env.postJSON(t, "/api/v1/summarize", SummarizeRequest{ArticleText: "text"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSummarizeEmptyResult(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, &stubSummarizer{summary: "  "})

	rec := env.postJSON(t, "/api/v1/summarize", SummarizeRequest{ArticleText: "text"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, &stubOracle{response: "4"}, nil)

	rec := env.get(t, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
