package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/config"
	"github.com/gyeh/icd9/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full load pipeline: preflight → stage → headings →
// transform → finalize → cleanup.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.IngestSummary, error) {
	totalStart := time.Now()
	if err := cfg.ValidateKinds(); err != nil {
		return nil, &PipelineError{Phase: "config", Err: err}
	}
	kinds := cfg.KindColumns()

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, cfg.FilePath, cfg.EffectiveDate, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Int64("document_id", pf.DocumentID).
			Str("sha256", pf.FileSHA256).
			Msg("document already loaded, skipping (use --force to re-load)")
		return &model.IngestSummary{
			FilePath:      pf.FilePath,
			FileSHA256:    pf.FileSHA256,
			DocumentID:    pf.DocumentID,
			IngestBatchID: pf.IngestBatchID.String(),
			DurationTotal: time.Since(totalStart),
		}, nil
	}

	fail := func(phase string, err error) error {
		_ = UpdateStatus(ctx, pool, pf.DocumentID, "failed")
		return &PipelineError{Phase: phase, Err: err}
	}

	// Phase 2: Build and stage
	log.Info().Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.DocumentID, "staging"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}
	stageResult, err := Stage(ctx, pool, log, pf, kinds)
	if err != nil {
		return nil, fail("stage", err)
	}
	if err := UpdateStatus(ctx, pool, pf.DocumentID, "staged"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Major and chapter headings
	log.Info().Msg("upserting headings")
	dims, err := UpsertDimensions(ctx, pool, log, pf.DocumentID, stageResult.Table, kinds)
	if err != nil {
		return nil, fail("dimensions", err)
	}

	// Phase 4: Transform
	log.Info().Msg("starting transform")
	if err := UpdateStatus(ctx, pool, pf.DocumentID, "transforming"); err != nil {
		return nil, &PipelineError{Phase: "transform", Err: err}
	}
	transformResult, err := Transform(ctx, pool, log, pf.IngestBatchID)
	if err != nil {
		return nil, fail("transform", err)
	}
	if err := UpdateStatus(ctx, pool, pf.DocumentID, "transformed"); err != nil {
		return nil, &PipelineError{Phase: "transform", Err: err}
	}

	// Phase 5: Finalize
	log.Info().Msg("finalizing")
	finalizeDur, err := Finalize(ctx, pool, log, pf.DocumentID, cfg.Activate)
	if err != nil {
		return nil, fail("finalize", err)
	}

	// Phase 6: Cleanup staging
	if !cfg.KeepStaging {
		log.Info().Msg("cleaning up staging")
		if err := Cleanup(ctx, pool, log, pf.IngestBatchID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}

	summary := &model.IngestSummary{
		FilePath:          pf.FilePath,
		FileSHA256:        pf.FileSHA256,
		DocumentID:        pf.DocumentID,
		IngestBatchID:     pf.IngestBatchID.String(),
		CodesBuilt:        stageResult.CodesBuilt,
		RowsStaged:        stageResult.RowsStaged,
		RowsSkipped:       stageResult.RowsSkipped,
		RowsUpserted:      transformResult.RowsUpserted,
		MajorsUpserted:    dims.Majors,
		ChaptersUpserted:  dims.Chapters,
		Warnings:          stageResult.Warnings,
		RowsByKind:        stageResult.RowsByKind,
		DurationBuild:     stageResult.BuildDuration,
		DurationCopy:      stageResult.CopyDuration,
		DurationTransform: transformResult.Duration,
		DurationFinalize:  finalizeDur,
		DurationTotal:     time.Since(totalStart),
	}

	log.Info().
		Int64("codes_built", summary.CodesBuilt).
		Int64("rows_staged", summary.RowsStaged).
		Int64("rows_upserted", summary.RowsUpserted).
		Int("warnings", summary.Warnings).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}
