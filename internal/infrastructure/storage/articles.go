package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
)

// ArticleRepository persists articles in Postgres.
type ArticleRepository struct {
	db *sqlx.DB
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository wires a sqlx.DB implementation.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// AlreadyStored returns a map with IDs that already exist in storage.
func (r *ArticleRepository) AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id FROM articles WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.StringArray(ids))
	if err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// Save upserts the article snapshot.
func (r *ArticleRepository) Save(ctx context.Context, article domain.Article) error {
	if r.db == nil {
		return nil
	}

	query, args, err := builder.
		Insert("articles").
		Columns("id", "title", "source", "url", "raw_text", "summary", "published_at").
		Values(article.ID, article.Title, article.Source, article.URL, article.RawText, article.Summary, article.PublishedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
            SET title = EXCLUDED.title,
                raw_text = EXCLUDED.raw_text,
                summary = EXCLUDED.summary,
                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	return nil
}

// GetByID loads a single article or ports.ErrNotFound.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := builder.
		Select("id", "title", "source", "url", "raw_text", "summary", "published_at", "created_at").
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build select: %w", err)
	}

	var article domain.Article
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Source,
		&article.URL,
		&article.RawText,
		&article.Summary,
		&article.PublishedAt,
		&article.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Article{}, ports.ErrNotFound
		}
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}

	return article, nil
}

// Latest lists the newest articles with their ratings, applying the filter.
func (r *ArticleRepository) Latest(ctx context.Context, filter ports.LatestFilter) ([]domain.ArticleWithRating, error) {
	query, args, err := latestQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	var results []domain.ArticleWithRating
	for rows.Next() {
		var (
			article     domain.Article
			scores      []byte
			overall     sql.NullFloat64
			model       sql.NullString
			evaluatedAt sql.NullTime
		)
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Source,
			&article.URL,
			&article.RawText,
			&article.Summary,
			&article.PublishedAt,
			&article.CreatedAt,
			&scores,
			&overall,
			&model,
			&evaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}

		item := domain.ArticleWithRating{Article: article}
		if scores != nil {
			r := domain.BiasRating{
				ArticleID:   article.ID,
				Model:       model.String,
				EvaluatedAt: evaluatedAt.Time,
			}
			if err := json.Unmarshal(scores, &r.DimensionScores); err != nil {
				return nil, fmt.Errorf("decode dimension scores: %w", err)
			}
			if overall.Valid {
				v := overall.Float64
				r.OverallScore = &v
			}
			item.Rating = &r
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return results, nil
}

func latestQuery(filter ports.LatestFilter) sq.SelectBuilder {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	q := builder.
		Select(
			"a.id", "a.title", "a.source", "a.url", "a.raw_text", "a.summary",
			"a.published_at", "a.created_at",
			"b.dimension_scores", "b.overall_score", "b.model", "b.evaluated_at",
		).
		From("articles a").
		LeftJoin("bias_ratings b ON b.article_id = a.id").
		OrderBy("a.created_at DESC").
		Limit(uint64(limit))

	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	if filter.MinScore != nil {
		q = q.Where(sq.GtOrEq{"b.overall_score": *filter.MinScore})
	}
	if filter.MaxScore != nil {
		q = q.Where(sq.LtOrEq{"b.overall_score": *filter.MaxScore})
	}

	return q
}
