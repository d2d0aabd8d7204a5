package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"StockNews/internal/domain"
	"StockNews/internal/ports"
)

// PostgresRepository persists scored articles into Postgres for audit.
// Records are keyed by a content hash so rerunning the same inputs upserts
// instead of duplicating.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveScored upserts one row per scored article. A nil repository or db is
// a no-op so the audit store stays optional.
func (r *PostgresRepository) SaveScored(ctx context.Context, articles []domain.Article) error {
	if r == nil || r.db == nil {
		return nil
	}

	for _, article := range articles {
		query := r.builder.
			Insert("article_scores").
			Columns(
				"article_id", "title", "summary", "translation",
				"primary_label", "primary_confidence",
				"secondary_label", "secondary_confidence",
				"final_score",
			).
			Values(
				articleID(article), article.Title, article.Summary, article.Translation,
				string(article.Primary.Label), article.Primary.Confidence,
				string(article.Secondary.Label), article.Secondary.Confidence,
				article.FinalScore,
			).
			Suffix(`ON CONFLICT (article_id) DO UPDATE
                SET summary = EXCLUDED.summary,
                    translation = EXCLUDED.translation,
                    primary_label = EXCLUDED.primary_label,
                    primary_confidence = EXCLUDED.primary_confidence,
                    secondary_label = EXCLUDED.secondary_label,
                    secondary_confidence = EXCLUDED.secondary_confidence,
                    final_score = EXCLUDED.final_score,
                    updated_at = NOW()`)

		statement, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, statement, args...); err != nil {
			return fmt.Errorf("upsert article %d: %w", article.ID, err)
		}
	}

	return nil
}

func articleID(article domain.Article) string {
	sum := sha256.Sum256([]byte(article.Title + "\n" + article.Content))
	return hex.EncodeToString(sum[:])
}
