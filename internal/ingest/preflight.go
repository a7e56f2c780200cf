package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/normalize"
	embedsql "github.com/gyeh/icd9/internal/sql"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	FilePath   string
	FileSHA256 string
	FileSize   int64
	// DocumentID is the ingest.source_documents key, inserted or looked up by sha256.
	DocumentID int64
	// IngestBatchID tags this run's staged rows for transform and cleanup.
	IngestBatchID uuid.UUID
	// AlreadyLoaded is true when the same content is already active or
	// transformed and force mode is off.
	AlreadyLoaded bool
}

// Preflight hashes the tabular list and registers it as a source document.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, filePath, effectiveDate string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	docID, alreadyLoaded, err := registerDocument(ctx, pool, filePath, sha, stat.Size(), effectiveDate, force)
	if err != nil {
		return nil, fmt.Errorf("preflight register document: %w", err)
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("document_id", docID).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:      filePath,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		DocumentID:    docID,
		IngestBatchID: uuid.New(),
		AlreadyLoaded: alreadyLoaded,
	}, nil
}

func registerDocument(ctx context.Context, pool *pgxpool.Pool, filePath, sha string, size int64, effectiveDate string, force bool) (int64, bool, error) {
	var docID int64
	err := pool.QueryRow(ctx, embedsql.RegisterDocument,
		filepath.Base(filePath), sha, size, normalize.ParseDate(effectiveDate),
	).Scan(&docID)

	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returns no row for a known sha256.
		var status string
		if err := pool.QueryRow(ctx, embedsql.LookupDocument, sha).Scan(&docID, &status); err != nil {
			return 0, false, fmt.Errorf("lookup existing document: %w", err)
		}
		if !force && (status == "active" || status == "transformed") {
			return docID, true, nil
		}
		if err := UpdateStatus(ctx, pool, docID, "pending"); err != nil {
			return 0, false, fmt.Errorf("reset document status: %w", err)
		}
		return docID, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("register document: %w", err)
	}
	return docID, false, nil
}

// UpdateStatus updates a source document's status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, documentID int64, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateDocumentStatus, documentID, status)
	return err
}
