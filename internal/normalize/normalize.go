package normalize

import (
	"github.com/google/uuid"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/model"
)

// ToLookupRows flattens a lookup table into Parquet/DB rows in table order.
// Billable is derived from the table's own codes; Chapter from its headings.
func ToLookupRows(t *lookup.Table) []model.LookupRow {
	defined := t.Defined()
	rows := make([]model.LookupRow, 0, t.Len())
	for short, desc := range t.All() {
		c, err := icd9.Parse(short, icd9.Short)
		if err != nil {
			continue
		}
		row := model.LookupRow{
			Code:        c.Short(),
			Decimal:     c.Decimal(),
			Kind:        model.CodeKindFor(c.Kind).Column,
			Major:       c.Major,
			Description: desc,
			Billable:    defined.IsBillable(c),
		}
		if ch, ok := t.ChapterFor(c); ok {
			row.Chapter = optStr(ch.Title)
		}
		rows = append(rows, row)
	}
	return rows
}

// ToStagingRow tags a LookupRow with its batch for COPY into staging.
func ToStagingRow(row *model.LookupRow, batchID uuid.UUID, documentID, ordinal int64) *model.StagingRow {
	return &model.StagingRow{
		IngestBatchID:   batchID,
		DocumentID:      documentID,
		SourceOrdinal:   ordinal,
		RowHash:         RowHashFromValues(ordinal, row.Code, row.Description),
		Code:            row.Code,
		DecimalCode:     row.Decimal,
		Kind:            row.Kind,
		Major:           row.Major,
		Description:     row.Description,
		DescriptionNorm: NormalizeDescription(&row.Description),
		Billable:        row.Billable,
		Chapter:         row.Chapter,
	}
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
