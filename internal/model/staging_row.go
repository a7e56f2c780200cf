package model

import (
	"github.com/google/uuid"
)

// StagingRow is a LookupRow tagged with its load batch, ready for COPY into
// ingest.stage_icd9_codes.
type StagingRow struct {
	IngestBatchID uuid.UUID
	DocumentID    int64

	SourceOrdinal int64
	RowHash       []byte

	Code            string
	DecimalCode     string
	Kind            string
	Major           string
	Description     string
	DescriptionNorm *string
	Billable        bool
	Chapter         *string
}

// StagingColumns returns the ordered column names for COPY into ingest.stage_icd9_codes.
func StagingColumns() []string {
	return []string{
		"ingest_batch_id",
		"document_id",
		"source_ordinal",
		"row_hash",
		"code",
		"decimal_code",
		"kind",
		"major",
		"description",
		"description_norm",
		"billable",
		"chapter",
	}
}

// CopyValues returns the row values in the same order as StagingColumns(),
// suitable for pgx CopyFromSource.
func (r *StagingRow) CopyValues() []any {
	return []any{
		r.IngestBatchID,
		r.DocumentID,
		r.SourceOrdinal,
		r.RowHash,
		r.Code,
		r.DecimalCode,
		r.Kind,
		r.Major,
		r.Description,
		r.DescriptionNorm,
		r.Billable,
		r.Chapter,
	}
}
