package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Articles   ports.ArticleRepository
	Ratings    ports.RatingRepository
	Rater      *Rater
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements the article-ingestion workflow: fetch, dedupe,
// summarize, persist, rate, persist rating, notify.
type Pipeline struct {
	source     ports.ArticleSource
	articles   ports.ArticleRepository
	ratings    ports.RatingRepository
	rater      *Rater
	summarizer ports.Summarizer
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		articles:   deps.Articles,
		ratings:    deps.Ratings,
		rater:      deps.Rater,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run fetches fresh articles and rates the new ones. A rating failure for
// one article is logged and skipped, never retried here; the article stays
// unrated so a later run or a manual analyze call can pick it up.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil {
		return nil
	}

	articles, err := p.source.FetchLatest(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch latest: %w", err)
	}

	ids := make([]string, len(articles))
	for i, art := range articles {
		ids[i] = art.ID
	}

	skip := map[string]bool{}
	if p.articles != nil && len(ids) > 0 {
		skip, err = p.articles.AlreadyStored(ctx, ids)
		if err != nil {
			return fmt.Errorf("load stored: %w", err)
		}
	}

	var rated []domain.ArticleWithRating
	for _, article := range articles {
		if skip[article.ID] {
			continue
		}

		if p.summarizer != nil {
			summary, sErr := p.summarizer.Summarize(ctx, article.RawText)
			if sErr != nil {
				p.warn("summarize failed", "article_id", article.ID, "error", sErr)
			} else {
				article.Summary = summary
			}
		}

		if p.articles != nil {
			if err := p.articles.Save(ctx, article); err != nil {
				return fmt.Errorf("persist article %s: %w", article.ID, err)
			}
		}

		if p.rater == nil {
			continue
		}

		result, rErr := p.rater.Rate(ctx, article.ID, article.RawText)
		if rErr != nil {
			p.warn("rating failed", "article_id", article.ID, "error", rErr)
			continue
		}

		if p.ratings != nil {
			if err := p.ratings.Save(ctx, result); err != nil {
				return fmt.Errorf("persist rating %s: %w", article.ID, err)
			}
		}

		rated = append(rated, domain.ArticleWithRating{Article: article, Rating: &result})
	}

	p.info("pipeline run complete", "fetched", len(articles), "rated", len(rated))

	if p.notifier == nil || len(rated) == 0 {
		return nil
	}

	return p.notifier.PublishDigest(ctx, rated)
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
