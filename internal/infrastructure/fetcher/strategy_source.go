package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsRater/internal/config"
	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
	"NewsRater/internal/sources"
)

// StrategySource implements ArticleSource via registered fetch strategies.
type StrategySource struct {
	registry *sources.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the strategy registry with config-defined sites.
func NewStrategySource(reg *sources.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchLatest iterates over configured sites and executes their strategies.
func (s *StrategySource) FetchLatest(ctx context.Context, now time.Time) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	s.debug("fetch latest", "sites", len(s.sites))

	var aggregated []domain.Article
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Strategy)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := sources.Request{
			Now:      now,
			SiteName: site.Name,
			Options:  site.Options,
			Sections: toSections(site.Sections),
		}

		results, err := strategy.Fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("fetch site %s: %w", site.Name, err)
		}

		s.debug("site produced articles", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func toSections(cfg []config.SectionConfig) []sources.Section {
	sections := make([]sources.Section, 0, len(cfg))
	for _, sec := range cfg {
		sections = append(sections, sources.Section{
			Name: sec.Name,
			URL:  sec.URL,
		})
	}
	return sections
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
