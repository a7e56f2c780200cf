package parquetio

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// validateColumns checks that the Parquet schema contains every required column.
func validateColumns(schema *parquet.Schema, required ...string) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range required {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateVisitSchema checks for the visit_id and code columns. poa is optional.
func ValidateVisitSchema(schema *parquet.Schema) error {
	return validateColumns(schema, "visit_id", "code")
}

// ValidateLookupSchema checks for the columns ReadLookup needs.
func ValidateLookupSchema(schema *parquet.Schema) error {
	return validateColumns(schema, "code", "description")
}
