package api

import (
	"time"

	"NewsRater/internal/domain"
	"NewsRater/internal/rating"
)

// RatingResponse reports one article's bias rating. BiasScore is the
// overall score rescaled to [-1, 1]; Scores keeps the raw per-dimension
// values on their configured scale.
type RatingResponse struct {
	ArticleID   string             `json:"article_id"`
	BiasScore   *float64           `json:"bias_score"`
	Scores      map[string]float64 `json:"scores"`
	Model       string             `json:"model"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
}

// ArticleResponse is a single article with its rating, if any.
type ArticleResponse struct {
	ArticleID   string          `json:"article_id"`
	Title       string          `json:"title"`
	Source      string          `json:"source"`
	URL         string          `json:"url"`
	Summary     string          `json:"summary,omitempty"`
	PublishedAt time.Time       `json:"published_at"`
	CreatedAt   time.Time       `json:"created_at"`
	BiasRating  *RatingResponse `json:"bias_rating"`
}

// ArticleListResponse pages the latest articles.
type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int               `json:"total"`
}

// SummarizeResponse carries the generated summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

func toRatingResponse(r domain.BiasRating) RatingResponse {
	resp := RatingResponse{
		ArticleID:   r.ArticleID,
		Scores:      r.DimensionScores,
		Model:       r.Model,
		EvaluatedAt: r.EvaluatedAt,
	}
	if r.OverallScore != nil {
		normalized := rating.Normalize(*r.OverallScore, 1, 7, -1, 1)
		resp.BiasScore = &normalized
	}
	return resp
}

func toArticleResponse(item domain.ArticleWithRating) ArticleResponse {
	resp := ArticleResponse{
		ArticleID:   item.Article.ID,
		Title:       item.Article.Title,
		Source:      item.Article.Source,
		URL:         item.Article.URL,
		Summary:     item.Article.Summary,
		PublishedAt: item.Article.PublishedAt,
		CreatedAt:   item.Article.CreatedAt,
	}
	if item.Rating != nil {
		r := toRatingResponse(*item.Rating)
		resp.BiasRating = &r
	}
	return resp
}
