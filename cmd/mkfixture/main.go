// mkfixture turns a visit/code CSV into a Parquet fixture for the comorbid
// command. With --visits it keeps a small representative subset: visits with
// V codes, E codes, POA=N flags and invalid codes first, then the rest.
// Usage: go run ./cmd/mkfixture --in testdata/visits.csv --out testdata/visits.parquet --visits 200
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/model"
	"github.com/gyeh/icd9/internal/parquetio"
	"github.com/gyeh/icd9/internal/visit"
)

func main() {
	in := flag.String("in", "testdata/visits.csv", "input CSV")
	out := flag.String("out", "testdata/visits.parquet", "output parquet")
	maxVisits := flag.Int("visits", 0, "max visits to output (0: all)")
	checkOnly := flag.Bool("check", false, "only print stats, don't write")
	cols := visit.DefaultColumns
	flag.StringVar(&cols.Visit, "visit-col", cols.Visit, "visit id column")
	flag.StringVar(&cols.Code, "code-col", cols.Code, "code column")
	flag.StringVar(&cols.POA, "poa-col", cols.POA, "POA column (empty: none)")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	records, rowErrs, err := visit.ReadCSV(f, cols)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read csv: %v\n", err)
		os.Exit(1)
	}
	for _, re := range rowErrs {
		fmt.Fprintf(os.Stderr, "skipped %v\n", re)
	}

	// Group records by visit, keeping first-occurrence order.
	var order []string
	byVisit := make(map[string][]visit.Record)
	for _, r := range records {
		if _, ok := byVisit[r.VisitID]; !ok {
			order = append(order, r.VisitID)
		}
		byVisit[r.VisitID] = append(byVisit[r.VisitID], r)
	}

	if *checkOnly {
		printStats(records, len(order))
		return
	}

	type bucket struct {
		name string
		want int
		has  func(visit.Record) bool
	}
	buckets := []bucket{
		{name: "v_code", want: 20, has: func(r visit.Record) bool { return kindOf(r.Code) == "v" }},
		{name: "e_code", want: 20, has: func(r visit.Record) bool { return kindOf(r.Code) == "e" }},
		{name: "poa_no", want: 20, has: func(r visit.Record) bool { return r.POA == visit.No }},
		{name: "invalid", want: 10, has: func(r visit.Record) bool { return kindOf(r.Code) == "" }},
	}

	limit := *maxVisits
	if limit <= 0 || limit > len(order) {
		limit = len(order)
	}
	chosen := make(map[string]bool, limit)
	var selected []string
	pick := func(id string) {
		if !chosen[id] && len(selected) < limit {
			chosen[id] = true
			selected = append(selected, id)
		}
	}
	for _, b := range buckets {
		got := 0
		for _, id := range order {
			if got >= b.want {
				break
			}
			for _, r := range byVisit[id] {
				if b.has(r) {
					pick(id)
					got++
					break
				}
			}
		}
	}
	for _, id := range order {
		pick(id)
	}

	var rows []model.VisitRow
	var kept []visit.Record
	for _, id := range selected {
		for _, r := range byVisit[id] {
			row := model.VisitRow{VisitID: r.VisitID, Code: r.Code}
			if r.POA != visit.Missing {
				poa := r.POA.String()
				row.POA = &poa
			}
			rows = append(rows, row)
			kept = append(kept, r)
		}
	}

	if err := parquetio.WriteVisits(*out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows (%d visits) to %s\n", len(rows), len(selected), *out)
	printStats(kept, len(selected))
}

func kindOf(code string) string {
	c, err := icd9.Parse(code, icd9.Auto)
	if err != nil {
		return ""
	}
	return model.CodeKindFor(c.Kind).Column
}

func printStats(records []visit.Record, visits int) {
	kinds := make(map[string]int)
	poa := make(map[visit.POA]int)
	for _, r := range records {
		kinds[kindOf(r.Code)]++
		poa[r.POA]++
	}
	fmt.Printf("Records: %d, visits: %d\n", len(records), visits)
	fmt.Println("Code kinds:")
	for _, ck := range model.AllCodeKinds {
		fmt.Printf("  %-10s %d\n", ck.Name, kinds[ck.Column])
	}
	fmt.Printf("  %-10s %d\n", "invalid", kinds[""])
	fmt.Println("POA flags:")
	for p := visit.Missing; p <= visit.Unknown; p++ {
		if n := poa[p]; n > 0 {
			fmt.Printf("  %-10s %d\n", p, n)
		}
	}
}
