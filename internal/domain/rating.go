package domain

import "time"

// BiasRating captures per-dimension bias scores for a single article.
// OverallScore is always the aggregator's output over DimensionScores;
// it is nil only when no dimension could be scored.
type BiasRating struct {
	ArticleID       string
	DimensionScores map[string]float64
	OverallScore    *float64
	Model           string
	EvaluatedAt     time.Time
}

// ArticleWithRating pairs an article with its bias rating, if one exists.
type ArticleWithRating struct {
	Article Article
	Rating  *BiasRating
}
