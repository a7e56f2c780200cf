package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/db"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/model"
	"github.com/gyeh/icd9/internal/normalize"
	"github.com/gyeh/icd9/internal/rtfparse"
)

const stageBufferSize = 1024

// StageResult holds metrics from the build and staging phase.
type StageResult struct {
	Table         *lookup.Table
	Warnings      int
	CodesBuilt    int64
	RowsStaged    int64
	RowsSkipped   int64
	RowsByKind    map[string]int64
	BuildDuration time.Duration
	CopyDuration  time.Duration
}

// Stage builds the lookup table from the source document and COPY-loads the
// codes whose kind is in kinds into the staging table via a channel-backed
// CopyFromSource.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, kinds map[string]bool) (*StageResult, error) {
	start := time.Now()

	built, err := rtfparse.BuildFile(pf.FilePath, log)
	if err != nil {
		return nil, fmt.Errorf("stage build: %w", err)
	}
	rows := normalize.ToLookupRows(built.Table)
	buildDur := time.Since(start)

	res := &StageResult{
		Table:         built.Table,
		Warnings:      len(built.Warnings),
		CodesBuilt:    int64(len(rows)),
		RowsByKind:    make(map[string]int64),
		BuildDuration: buildDur,
	}

	copyStart := time.Now()
	ch := make(chan *model.StagingRow, stageBufferSize)
	errCh := make(chan error, 1)

	// Producer: lookup rows → staging rows, filtered by kind.
	go func() {
		defer close(ch)
		var ordinal int64
		for i := range rows {
			row := &rows[i]
			if !kinds[row.Kind] {
				res.RowsSkipped++
				continue
			}
			ordinal++
			res.RowsByKind[row.Kind]++
			select {
			case ch <- normalize.ToStagingRow(row, pf.IngestBatchID, pf.DocumentID, ordinal):
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	source := db.NewChannelSource(ch)
	staged, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_icd9_codes"},
		model.StagingColumns(),
		source,
	)
	if err != nil {
		// Unblock the producer if COPY gave up early.
		for range ch {
		}
	}

	if prodErr := <-errCh; prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	res.RowsStaged = staged
	res.CopyDuration = time.Since(copyStart)
	log.Info().
		Int64("codes_built", res.CodesBuilt).
		Int64("rows_staged", staged).
		Int64("rows_skipped", res.RowsSkipped).
		Int("warnings", res.Warnings).
		Str("duration", time.Since(start).String()).
		Msg("staging complete")

	return res, nil
}
