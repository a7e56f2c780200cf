package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/db"
	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/model"
	embedsql "github.com/gyeh/icd9/internal/sql"
)

// DimensionResult counts the heading rows written for a document.
type DimensionResult struct {
	Majors   int64
	Chapters int64
}

// UpsertDimensions writes the table's major headings and chapter spans for a
// document in a single transaction. Only headings of the selected kinds are
// written.
func UpsertDimensions(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, documentID int64, t *lookup.Table, kinds map[string]bool) (*DimensionResult, error) {
	start := time.Now()
	res := &DimensionResult{}

	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for major, desc := range t.Majors.All() {
			if !kinds[kindColumn(major)] {
				continue
			}
			batch.Queue(embedsql.UpsertMajor, documentID, major, desc)
			res.Majors++
		}
		for _, ch := range t.Chapters {
			kind := model.CodeKindFor(ch.Start.Kind).Column
			if !kinds[kind] {
				continue
			}
			batch.Queue(embedsql.UpsertChapter, documentID, ch.Start.Short(), ch.End.Short(), kind, ch.Title)
			res.Chapters++
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, fmt.Errorf("upsert headings: %w", err)
	}

	log.Info().
		Int64("majors_upserted", res.Majors).
		Int64("chapters_upserted", res.Chapters).
		Dur("duration", time.Since(start)).
		Msg("headings upserted")
	return res, nil
}

func kindColumn(major string) string {
	c, err := icd9.Parse(major, icd9.Short)
	if err != nil {
		return ""
	}
	return model.CodeKindFor(c.Kind).Column
}
