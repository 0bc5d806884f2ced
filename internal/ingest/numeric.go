package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCount parses a loosely formatted count such as "1,234,567" or " 42 ".
// Game exports use thousands separators; anything left over after stripping
// them must be a plain base-10 integer.
func parseCount(raw string) (int64, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if clean == "" {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

// fieldParser parses optional numeric cells with a sticky error, so a row
// handler can read every field and check once at the end.
type fieldParser struct {
	err error
}

// optional returns nil for an empty cell and the parsed value otherwise.
// An unparsable non-empty cell sets the sticky error; writing garbage to
// storage is never an option.
func (p *fieldParser) optional(raw string) *int64 {
	if p.err != nil {
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	n, err := parseCount(raw)
	if err != nil {
		p.err = err
		return nil
	}
	return &n
}
