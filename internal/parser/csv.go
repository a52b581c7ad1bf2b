package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"commute/internal/logging"
	"commute/internal/models"
)

const (
	colState       = "state"
	colCode        = "code"
	colCommuteType = "commute type"
	colRate        = "rate"
)

// ParseStacked reads the stacked table: State, Commute Type, Rate
func ParseStacked(r io.Reader) ([]models.CommuteByTypeRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, NewLoadError("header", "stacked", fmt.Errorf("failed to read CSV headers: %w", err))
	}
	headerMap := makeHeaderMap(headers)
	for _, required := range []string{colState, colCommuteType, colRate} {
		if _, ok := headerMap[required]; !ok {
			return nil, NewLoadError("header", "stacked", fmt.Errorf("missing column %q in %v", required, headers))
		}
	}

	var rows []models.CommuteByTypeRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		line++
		if err != nil {
			return nil, NewLoadError("row", "stacked", fmt.Errorf("failed to read CSV row: %w", err))
		}
		if isBlank(record) {
			continue
		}

		rate, ok, err := parseOptionalRate(field(record, headerMap[colRate]))
		if err != nil {
			return nil, NewLoadError("row", "stacked", fmt.Errorf("line %d: %w", line, err))
		}
		if !ok {
			logging.Debugf("stacked line %d: blank rate, row skipped", line)
			continue
		}
		rows = append(rows, models.CommuteByTypeRow{
			State:       strings.TrimSpace(field(record, headerMap[colState])),
			CommuteType: strings.TrimSpace(field(record, headerMap[colCommuteType])),
			Rate:        rate,
		})
	}
}

// ParseWide reads the wide table: State, Code and one rate column per method.
// Columns named after a commute method are always kept: a blank cell is a
// missing value and any other non-numeric cell fails the load. Other columns
// are kept only when they hold numbers and every non-blank cell is numeric.
// Method headers are stored under the method's canonical spelling.
func ParseWide(r io.Reader) ([]models.CommuteByStateRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, NewLoadError("header", "wide", fmt.Errorf("failed to read CSV headers: %w", err))
	}
	headerMap := makeHeaderMap(headers)
	for _, required := range []string{colState, colCode} {
		if _, ok := headerMap[required]; !ok {
			return nil, nil, NewLoadError("header", "wide", fmt.Errorf("missing column %q in %v", required, headers))
		}
	}

	var records [][]string
	var lines []int
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, NewLoadError("row", "wide", fmt.Errorf("failed to read CSV row: %w", err))
		}
		if isBlank(record) {
			continue
		}
		records = append(records, record)
		lines = append(lines, line)
	}

	type rateColumn struct {
		name    string
		values  []float64
		present []bool
	}
	var columns []rateColumn
	for i, header := range headers {
		key := normalizeHeader(header)
		if key == colState || key == colCode || key == "" {
			continue
		}
		name, method := canonicalColumn(header)
		c := rateColumn{name: name, values: make([]float64, len(records)), present: make([]bool, len(records))}
		keep, seen := true, false
		for j, record := range records {
			v, ok, err := parseOptionalRate(field(record, i))
			if err != nil {
				if method {
					return nil, nil, NewLoadError("row", "wide", fmt.Errorf("line %d, column %q: %w", lines[j], name, err))
				}
				keep = false
				break
			}
			c.values[j], c.present[j] = v, ok
			seen = seen || ok
		}
		if method || (keep && seen) {
			columns = append(columns, c)
		}
	}

	rows := make([]models.CommuteByStateRow, len(records))
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	for j, record := range records {
		code := strings.ToUpper(strings.TrimSpace(field(record, headerMap[colCode])))
		if len(code) != 2 {
			return nil, nil, NewLoadError("row", "wide", fmt.Errorf("line %d: invalid state code %q", lines[j], code))
		}
		rates := make(map[string]float64, len(columns))
		for _, c := range columns {
			if c.present[j] {
				rates[c.name] = c.values[j]
			}
		}
		rows[j] = models.CommuteByStateRow{
			State: strings.TrimSpace(field(record, headerMap[colState])),
			Code:  code,
			Rates: rates,
		}
	}
	return rows, names, nil
}

func makeHeaderMap(headers []string) map[string]int {
	headerMap := make(map[string]int, len(headers))
	for i, header := range headers {
		key := normalizeHeader(header)
		if _, dup := headerMap[key]; !dup {
			headerMap[key] = i
		}
	}
	return headerMap
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// canonicalColumn also reports whether the header names a commute method
func canonicalColumn(header string) (string, bool) {
	key := normalizeHeader(header)
	for _, m := range models.CommuteMethods {
		if strings.ToLower(string(m)) == key {
			return string(m), true
		}
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")), false
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRate accepts plain numbers, a trailing % and thousands separators
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	s = strings.ReplaceAll(s, ",", "")
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	return v, nil
}

// parseOptionalRate treats a blank cell as a missing value
func parseOptionalRate(s string) (float64, bool, error) {
	if strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	v, err := parseRate(s)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
