package visit

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Columns names the CSV header fields holding each record attribute. An
// empty POA column means the file carries no POA data.
type Columns struct {
	Visit string
	Code  string
	POA   string
}

// DefaultColumns matches the header written by cmd/mkfixture.
var DefaultColumns = Columns{Visit: "visit_id", Code: "code", POA: "poa"}

// RowError reports a CSV row that could not be turned into a Record.
type RowError struct {
	Row int // 1-based, header is row 1
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadCSV reads visit records from r. Rows with a bad POA token are skipped
// and reported in the returned row errors; a structural CSV problem aborts.
func ReadCSV(r io.Reader, cols Columns) ([]Record, []*RowError, error) {
	br := bufio.NewReader(r)
	// Skip UTF-8 BOM if present
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	visitCol, ok := idx[strings.ToLower(cols.Visit)]
	if !ok {
		return nil, nil, fmt.Errorf("missing visit column %q", cols.Visit)
	}
	codeCol, ok := idx[strings.ToLower(cols.Code)]
	if !ok {
		return nil, nil, fmt.Errorf("missing code column %q", cols.Code)
	}
	poaCol := -1
	if cols.POA != "" {
		if i, ok := idx[strings.ToLower(cols.POA)]; ok {
			poaCol = i
		}
	}

	var records []Record
	var rowErrs []*RowError
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		rec := Record{
			VisitID: field(fields, visitCol),
			Code:    field(fields, codeCol),
		}
		if poaCol >= 0 {
			poa, err := ParsePOA(field(fields, poaCol))
			if err != nil {
				rowErrs = append(rowErrs, &RowError{Row: row, Err: err})
				continue
			}
			rec.POA = poa
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}
