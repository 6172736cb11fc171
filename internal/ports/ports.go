package ports

import (
	"context"
	"errors"
	"time"

	"NewsRater/internal/domain"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// TextOracle answers a single scoring prompt with unstructured text.
// Implementations wrap external LLM providers; callers treat responses
// as untrusted and push all interpretation into the parser.
type TextOracle interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a short summary for raw article text.
type Summarizer interface {
	Summarize(ctx context.Context, articleText string) (string, error)
}

// ArticleSource pulls fresh articles from upstream providers.
type ArticleSource interface {
	FetchLatest(ctx context.Context, now time.Time) ([]domain.Article, error)
}

// ArticleRepository persists articles for serving and deduplication.
type ArticleRepository interface {
	AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error)
	Save(ctx context.Context, article domain.Article) error
	GetByID(ctx context.Context, id string) (domain.Article, error)
	Latest(ctx context.Context, filter LatestFilter) ([]domain.ArticleWithRating, error)
}

// LatestFilter narrows and pages the article listing.
type LatestFilter struct {
	Limit    int
	Offset   int
	MinScore *float64
	MaxScore *float64
}

// RatingRepository persists completed bias ratings.
type RatingRepository interface {
	Save(ctx context.Context, rating domain.BiasRating) error
	GetByArticle(ctx context.Context, articleID string) (domain.BiasRating, error)
}

// Notifier publishes digests of newly rated articles to outbound channels.
// Formatting is the channel's concern: each adapter renders the entries
// the way its medium expects.
type Notifier interface {
	PublishDigest(ctx context.Context, rated []domain.ArticleWithRating) error
}

// Scheduler controls when the ingestion pipeline executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
