package rtfparse

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// BuildFile reads and builds the tabular list at path.
func BuildFile(path string, log zerolog.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tabular list: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, err
	}
	return Build(lines, log)
}
