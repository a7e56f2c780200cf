package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/icd9/internal/model"
)

const flushInterval = 100_000

// writeRows writes rows to a new Snappy-compressed Parquet file at path.
func writeRows[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&parquet.Snappy),
	)

	for start := 0; start < len(rows); start += flushInterval {
		end := min(start+flushInterval, len(rows))
		if _, err := writer.Write(rows[start:end]); err != nil {
			file.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
		// Flush row group periodically to bound memory usage
		if err := writer.Flush(); err != nil {
			file.Close()
			return fmt.Errorf("flush parquet row group: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}

// WriteLookup writes a built lookup table's rows.
func WriteLookup(path string, rows []model.LookupRow) error {
	return writeRows(path, rows)
}

// WriteVisits writes visit rows.
func WriteVisits(path string, rows []model.VisitRow) error {
	return writeRows(path, rows)
}
