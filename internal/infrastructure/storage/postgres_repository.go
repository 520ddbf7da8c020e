package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

// PostgresRepository persists scored batches into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ResultRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// SaveBatch inserts every result record of a finished batch in one statement.
func (r *PostgresRepository) SaveBatch(ctx context.Context, batchID string, results []domain.ResultRecord) error {
	if r.db == nil || len(results) == 0 {
		return nil
	}

	insert := r.builder.Insert("batch_results").Columns(
		"batch_id", "position", "title", "media_name",
		"volume_quality", "tier_score",
		"km_score", "acquisition_score", "audience_precision_score",
		"comment", "volume_total", "true_demand", "total_score",
	)
	for i, rec := range results {
		insert = insert.Values(
			batchID, i, rec.Title, rec.MediaName,
			rec.VolumeQuality, rec.TierScore,
			rec.KMScore, rec.AcquisitionScore, rec.AudiencePrecisionScore,
			rec.Comment, rec.VolumeTotal, rec.TrueDemand, rec.TotalScore,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batch %s: %w", batchID, err)
	}

	return nil
}

// LoadBatch reads a persisted batch back in input order.
func (r *PostgresRepository) LoadBatch(ctx context.Context, batchID string) ([]domain.ResultRecord, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.Select(
		"title", "media_name",
		"volume_quality", "tier_score",
		"km_score", "acquisition_score", "audience_precision_score",
		"comment", "volume_total", "true_demand", "total_score",
	).From("batch_results").
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var results []domain.ResultRecord
	for rows.Next() {
		var rec domain.ResultRecord
		if err := rows.Scan(
			&rec.Title, &rec.MediaName,
			&rec.VolumeQuality, &rec.TierScore,
			&rec.KMScore, &rec.AcquisitionScore, &rec.AudiencePrecisionScore,
			&rec.Comment, &rec.VolumeTotal, &rec.TrueDemand, &rec.TotalScore,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return results, nil
}
