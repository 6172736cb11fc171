package sources

import (
	"context"
	"fmt"
	"time"

	"NewsRater/internal/domain"
)

// Section describes a concrete listing endpoint provided by config.
type Section struct {
	Name string
	URL  string
}

// Request carries all parameters required to execute a fetch.
type Request struct {
	Now      time.Time
	SiteName string
	Sections []Section
	Options  map[string]string
}

// Strategy captures a single fetch implementation for one kind of site.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("source strategy %s is not registered", name)
}
