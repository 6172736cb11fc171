package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
)

// RatingRepository persists completed bias ratings in Postgres. Dimension
// scores are stored as a JSONB map keyed by dimension name.
type RatingRepository struct {
	db *sqlx.DB
}

var _ ports.RatingRepository = (*RatingRepository)(nil)

// NewRatingRepository wires a sqlx.DB implementation.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Save upserts the rating for its article.
func (r *RatingRepository) Save(ctx context.Context, rating domain.BiasRating) error {
	if r.db == nil {
		return nil
	}

	scores, err := json.Marshal(rating.DimensionScores)
	if err != nil {
		return fmt.Errorf("encode dimension scores: %w", err)
	}

	query, args, err := builder.
		Insert("bias_ratings").
		Columns("article_id", "dimension_scores", "overall_score", "model", "evaluated_at").
		Values(rating.ArticleID, scores, rating.OverallScore, rating.Model, rating.EvaluatedAt).
		Suffix(`ON CONFLICT (article_id) DO UPDATE
            SET dimension_scores = EXCLUDED.dimension_scores,
                overall_score = EXCLUDED.overall_score,
                model = EXCLUDED.model,
                evaluated_at = EXCLUDED.evaluated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

// GetByArticle loads the rating for an article or ports.ErrNotFound.
func (r *RatingRepository) GetByArticle(ctx context.Context, articleID string) (domain.BiasRating, error) {
	query, args, err := builder.
		Select("article_id", "dimension_scores", "overall_score", "model", "evaluated_at").
		From("bias_ratings").
		Where(sq.Eq{"article_id": articleID}).
		ToSql()
	if err != nil {
		return domain.BiasRating{}, fmt.Errorf("build select: %w", err)
	}

	var (
		rating  domain.BiasRating
		scores  []byte
		overall sql.NullFloat64
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&rating.ArticleID, &scores, &overall, &rating.Model, &rating.EvaluatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BiasRating{}, ports.ErrNotFound
		}
		return domain.BiasRating{}, fmt.Errorf("get rating: %w", err)
	}

	if err := json.Unmarshal(scores, &rating.DimensionScores); err != nil {
		return domain.BiasRating{}, fmt.Errorf("decode dimension scores: %w", err)
	}
	if overall.Valid {
		v := overall.Float64
		rating.OverallScore = &v
	}

	return rating, nil
}
