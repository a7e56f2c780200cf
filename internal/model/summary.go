package model

import "time"

// IngestSummary captures metrics from a single lookup-table load.
type IngestSummary struct {
	FilePath          string
	FileSHA256        string
	DocumentID        int64
	IngestBatchID     string
	CodesBuilt        int64
	RowsStaged        int64
	RowsSkipped       int64 // filtered out by kind
	RowsUpserted      int64
	MajorsUpserted    int64
	ChaptersUpserted  int64
	Warnings          int
	RowsByKind        map[string]int64
	DurationBuild     time.Duration
	DurationCopy      time.Duration
	DurationTransform time.Duration
	DurationFinalize  time.Duration
	DurationTotal     time.Duration
}
