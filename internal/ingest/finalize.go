package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/icd9/internal/sql"
)

// Finalize activates the document, deactivates older ones, and runs ANALYZE.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, documentID int64, activate bool) (time.Duration, error) {
	start := time.Now()

	if activate {
		tag, err := pool.Exec(ctx, embedsql.DeactivateOlderVersions, documentID)
		if err != nil {
			return 0, fmt.Errorf("deactivate older versions: %w", err)
		}
		log.Info().Int64("deactivated", tag.RowsAffected()).Msg("older documents deactivated")

		if _, err := pool.Exec(ctx, embedsql.ActivateVersion, documentID); err != nil {
			return 0, fmt.Errorf("activate version: %w", err)
		}
		log.Info().Int64("document_id", documentID).Msg("document activated")
	} else if err := UpdateStatus(ctx, pool, documentID, "transformed"); err != nil {
		return 0, fmt.Errorf("update status to transformed: %w", err)
	}

	for _, tbl := range []string{"ref.icd9_codes", "ref.icd9_majors", "ingest.stage_icd9_codes"} {
		if _, err := pool.Exec(ctx, "ANALYZE "+tbl); err != nil {
			return 0, fmt.Errorf("analyze %s: %w", tbl, err)
		}
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
