package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readData parses a price series from the -data flag. The value is either an
// inline list of numbers separated by commas or whitespace, or "@path" to read
// the same format from a file.
func readData(s string) ([]float64, error) {
	if strings.HasPrefix(s, "@") {
		raw, err := os.ReadFile(s[1:])
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		s = string(raw)
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no data values supplied")
	}

	series := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid data value %q: %w", f, err)
		}
		series = append(series, v)
	}
	return series, nil
}
