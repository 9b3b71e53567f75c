package timeutils

import (
	"strings"
	"time"
)

var headerDateLayouts = []string{
	LayoutHTTPHeaderDate,
	LayoutHTTPHeaderDateShortDay,
}

// ParseHeaderDate parses an HTTP Date header value and returns it in UTC.
// The error of the first layout is returned when no layout matches.
func ParseHeaderDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var firstErr error
	for _, layout := range headerDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
