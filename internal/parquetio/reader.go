package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/model"
	"github.com/gyeh/icd9/internal/normalize"
	"github.com/gyeh/icd9/internal/visit"
)

const readBatchSize = 1024

// Reader wraps a parquet GenericReader for streaming rows of type T.
type Reader[T any] struct {
	file   *os.File
	reader *parquet.GenericReader[T]
}

// Open opens a Parquet file and returns a streaming Reader.
func Open[T any](path string) (*Reader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[T](pf)
	return &Reader[T]{file: f, reader: r}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader[T]) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader[T]) Read(rows []T) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Schema returns the Parquet schema for validation.
func (r *Reader[T]) Schema() *parquet.Schema {
	return r.reader.Schema()
}

// Close releases all resources.
func (r *Reader[T]) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// readAll drains r.
func readAll[T any](r *Reader[T]) ([]T, error) {
	out := make([]T, 0, r.NumRows())
	buf := make([]T, readBatchSize)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadVisits loads visit records from a Parquet file. Codes are cleaned with
// normalize.NormalizeCode; rows with a blank visit or code, or an unknown POA
// flag, are reported and skipped.
func ReadVisits(path string) ([]visit.Record, []*visit.RowError, error) {
	r, err := Open[model.VisitRow](path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	if err := ValidateVisitSchema(r.Schema()); err != nil {
		return nil, nil, err
	}
	rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}

	records := make([]visit.Record, 0, len(rows))
	var bad []*visit.RowError
	for i := range rows {
		row := &rows[i]
		code := normalize.NormalizeCode(&row.Code)
		if row.VisitID == "" || code == nil {
			bad = append(bad, &visit.RowError{Row: i + 1, Err: errors.New("blank visit id or code")})
			continue
		}
		var poa visit.POA
		if row.POA != nil {
			if poa, err = visit.ParsePOA(*row.POA); err != nil {
				bad = append(bad, &visit.RowError{Row: i + 1, Err: err})
				continue
			}
		}
		records = append(records, visit.Record{VisitID: row.VisitID, Code: *code, POA: poa})
	}
	return records, bad, nil
}

// ReadLookup rebuilds a lookup table from a Parquet export. Majors are taken
// from rows for bare majors; chapter spans are not stored and stay empty.
func ReadLookup(path string) (*lookup.Table, error) {
	r, err := Open[model.LookupRow](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := ValidateLookupSchema(r.Schema()); err != nil {
		return nil, err
	}
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	t := lookup.NewTable()
	for _, row := range rows {
		c, err := icd9.Parse(row.Code, icd9.Short)
		if err != nil {
			return nil, fmt.Errorf("lookup row %q: %w", row.Code, err)
		}
		t.Set(c, row.Description)
		if c.IsMajor() {
			t.Majors.Set(c.Major, row.Description)
		}
	}
	return t, nil
}
