package model

// LookupRow mirrors the Parquet schema for one entry of a built lookup table.
type LookupRow struct {
	Code        string  `parquet:"code"`    // canonical short form
	Decimal     string  `parquet:"decimal"` // decimal form
	Kind        string  `parquet:"kind"`
	Major       string  `parquet:"major"`
	Description string  `parquet:"description"`
	Billable    bool    `parquet:"billable"`
	Chapter     *string `parquet:"chapter,optional"`
}

// VisitRow mirrors the Parquet schema for visit diagnosis records.
type VisitRow struct {
	VisitID string  `parquet:"visit_id"`
	Code    string  `parquet:"code"`
	POA     *string `parquet:"poa,optional"`
}
