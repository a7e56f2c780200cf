package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/icd9/internal/sql"
)

// TransformResult holds metrics from the staging → ref.icd9_codes upsert.
type TransformResult struct {
	RowsUpserted int64
	Duration     time.Duration
}

// Transform upserts the batch's staged codes into ref.icd9_codes. Rows whose
// hash is unchanged are left alone and do not count as upserted.
func Transform(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, batchID uuid.UUID) (*TransformResult, error) {
	start := time.Now()

	tag, err := pool.Exec(ctx, embedsql.TransformStageToCodes, batchID)
	if err != nil {
		return nil, fmt.Errorf("transform staged codes: %w", err)
	}

	dur := time.Since(start)
	rows := tag.RowsAffected()
	log.Info().
		Int64("rows_upserted", rows).
		Str("duration", dur.String()).
		Msg("transform complete")

	return &TransformResult{RowsUpserted: rows, Duration: dur}, nil
}
