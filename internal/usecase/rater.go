package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
	"NewsRater/internal/prompts"
	"NewsRater/internal/rating"
)

// RaterDeps wires everything the rating orchestrator needs.
type RaterDeps struct {
	Registry  *prompts.Registry
	Oracle    ports.TextOracle
	Aggregate rating.Aggregator
	Model     string
	Timeout   time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Rater is the bias-rating entry point consumed by the API and the worker.
// One invocation is one request/response; retry policy belongs to callers,
// since retrying an LLM batch has cost and latency implications.
type Rater struct {
	registry  *prompts.Registry
	caller    *rating.Caller
	aggregate rating.Aggregator
	model     string
	logger    *slog.Logger
	now       func() time.Time
}

// NewRater constructs the orchestrator; the aggregator defaults to the
// arithmetic mean and the clock to time.Now.
func NewRater(deps RaterDeps) *Rater {
	aggregate := deps.Aggregate
	if aggregate == nil {
		aggregate = rating.Mean
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Rater{
		registry:  deps.Registry,
		caller:    rating.NewCaller(deps.Oracle, deps.Timeout, deps.Logger),
		aggregate: aggregate,
		model:     deps.Model,
		logger:    deps.Logger,
		now:       now,
	}
}

// Rate scores the article text on every registered dimension. Blank text
// fails with *rating.InvalidInputError before any oracle call; any batch
// failure is returned as *rating.RatingFailedError with the cause wrapped.
func (r *Rater) Rate(ctx context.Context, articleID, articleText string) (domain.BiasRating, error) {
	if strings.TrimSpace(articleText) == "" {
		return domain.BiasRating{}, &rating.InvalidInputError{Reason: "article text is empty"}
	}

	specs := r.registry.Dimensions()
	r.debug("rating article", "article_id", articleID, "dimensions", len(specs))

	scores, err := r.caller.CallAll(ctx, articleText, specs)
	if err != nil {
		return domain.BiasRating{}, &rating.RatingFailedError{Err: err}
	}

	result := domain.BiasRating{
		ArticleID:       articleID,
		DimensionScores: scores,
		Model:           r.model,
		EvaluatedAt:     r.now().UTC(),
	}
	if overall, ok := r.aggregate(scores); ok {
		result.OverallScore = &overall
	}

	r.debug("article rated", "article_id", articleID, "overall", result.OverallScore)
	return result, nil
}

func (r *Rater) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
