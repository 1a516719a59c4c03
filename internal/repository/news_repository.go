package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/spec-kit/community-directory/internal/domain"
)

// NewsRepository defines persistence access for published news articles.
type NewsRepository interface {
	Create(ctx context.Context, article *domain.NewsArticle) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.NewsArticle, error)
}

type newsRepository struct {
	db DB
}

// NewNewsRepository returns a Postgres-backed implementation.
func NewNewsRepository(db DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, article *domain.NewsArticle) error {
	const query = `
        INSERT INTO news_articles (title, summary, body, source, source_url, area)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		article.Title,
		article.Summary,
		article.Body,
		article.Source,
		article.SourceURL,
		article.Area,
	).Scan(&article.ID, &article.CreatedAt)
	return mapError(err, "news article", article.Title)
}

func (r *newsRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.NewsArticle, error) {
	qb := psql.Select("id", "title", "summary", "body", "source", "source_url", "area", "created_at").
		From("news_articles")
	if filter.Area != "" {
		qb = qb.Where(sq.Eq{"area": filter.Area})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		qb = qb.Where(sq.Or{sq.ILike{"title": like}, sq.ILike{"summary": like}})
	}

	query, args, err := qb.
		OrderBy("created_at DESC").
		Limit(uint64(clampLimit(filter.Limit, 50, 200))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var articles []domain.NewsArticle
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &articles, query, args...); err != nil {
		return nil, mapError(err, "news", "list")
	}
	return articles, nil
}
