package rating

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsRater/internal/ports"
	"NewsRater/internal/prompts"
)

// DefaultCallTimeout bounds each individual oracle call.
const DefaultCallTimeout = 30 * time.Second

// Caller issues one oracle query per dimension, all concurrently, and
// parses every response. Success is all-or-nothing: any single transport,
// timeout, or parse failure aborts the batch and cancels in-flight calls.
type Caller struct {
	oracle  ports.TextOracle
	timeout time.Duration
	logger  *slog.Logger
}

// NewCaller wires the oracle with a per-call timeout; timeout <= 0 falls
// back to DefaultCallTimeout.
func NewCaller(oracle ports.TextOracle, timeout time.Duration, logger *slog.Logger) *Caller {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Caller{oracle: oracle, timeout: timeout, logger: logger}
}

// CallAll scores the article text against every spec concurrently and
// returns the complete dimension→score map, or a *BatchError naming the
// first failing dimension. No partial map is ever returned.
func (c *Caller) CallAll(ctx context.Context, articleText string, specs []prompts.DimensionSpec) (map[string]float64, error) {
	results := make([]float64, len(specs))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(groupCtx, c.timeout)
			defer cancel()

			raw, err := c.oracle.Query(callCtx, spec.BuildPrompt(articleText))
			if err != nil {
				return &BatchError{Dimension: spec.Name, Err: err}
			}

			score, err := Parse(raw, spec.Min, spec.Max)
			if err != nil {
				return &BatchError{Dimension: spec.Name, Err: err}
			}

			c.debug("dimension scored", "dimension", spec.Name, "score", score)
			results[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(specs))
	for i, spec := range specs {
		scores[spec.Name] = results[i]
	}
	return scores, nil
}

func (c *Caller) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
