package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Row maps a normalized column name to the raw (trimmed) cell value.
type Row map[string]string

// columnVocabulary is the set of header tokens any upload kind may carry.
// A header row containing none of these is not a header row.
var columnVocabulary = map[string]struct{}{
	"playername":         {},
	"power":              {},
	"allianceranking":    {},
	"playerrank":         {},
	"furnacelevel":       {},
	"worldrankplacement": {},
	"worldrank":          {},
	"points":             {},
}

// positionalSchema names CSV columns by position, used when a file has no
// recognizable header row.
type positionalSchema []string

var errNoDataRows = errors.New("CSV file is empty or has no valid data rows")

// normalizeHeader lowercases a header token and strips internal whitespace,
// so "Player Name" and "playername" address the same column.
func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// parseUpload turns raw CSV text into rows keyed by normalized column name.
// It first assumes the file has a header row; if the resulting column set
// contains no recognized token, or no data rows survive, the same text is
// re-parsed headerless against the caller's positional schema. A CSV the
// parser flags as structurally malformed fails hard at whichever attempt
// hit it, carrying the parser's diagnostic.
func parseUpload(text string, fallback positionalSchema) ([]Row, error) {
	rows, recognized, err := parseHeadered(text)
	if err != nil {
		return nil, err
	}
	if !recognized || len(rows) == 0 {
		rows, err = parsePositional(text, fallback)
		if err != nil {
			return nil, err
		}
	}
	if len(rows) == 0 {
		return nil, errNoDataRows
	}
	return rows, nil
}

// parseHeadered parses assuming row one is a header. The second return value
// reports whether any header token was recognized.
func parseHeadered(text string) ([]Row, bool, error) {
	r := csv.NewReader(strings.NewReader(text))

	header, err := r.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("csv parsing error: %w", err)
	}

	cols := make([]string, len(header))
	recognized := false
	for i, h := range header {
		cols[i] = normalizeHeader(h)
		if _, ok := columnVocabulary[cols[i]]; ok {
			recognized = true
		}
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("csv parsing error: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(cols))
		for i, v := range rec {
			if i < len(cols) && cols[i] != "" {
				row[cols[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, recognized, nil
}

// parsePositional re-parses the full text with no header, mapping cells to
// the schema by position. Short rows leave trailing columns absent; extra
// cells are ignored.
func parsePositional(text string, schema positionalSchema) ([]Row, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv parsing error: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(schema))
		for i, name := range schema {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
