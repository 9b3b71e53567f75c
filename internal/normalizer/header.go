package normalizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/docsync/internal/common/timeutils"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/rs/zerolog"
)

// Nested path of the header date inside a record
const (
	ResponseMetadataKey = "ResponseMetadata"
	HTTPHeadersKey      = "HTTPHeaders"
	DateKey             = "date"
)

// HeaderNormalizer replaces the textual header date of a record with its parsed UTC time
type HeaderNormalizer struct {
	logger zerolog.Logger
}

// NewHeaderNormalizer creates a new HeaderNormalizer
func NewHeaderNormalizer(logger zerolog.Logger) *HeaderNormalizer {
	return &HeaderNormalizer{
		logger: logger.With().Str("component", "HeaderNormalizer").Logger(),
	}
}

// Normalize parses ResponseMetadata.HTTPHeaders.date in place and returns the parsed time.
// Records without a non-empty value at every level of that path are returned unchanged with a nil time.
func (hn *HeaderNormalizer) Normalize(record models.Record) (models.Record, *time.Time, error) {
	headers, ok := nonEmptyObject(record[ResponseMetadataKey])
	if !ok {
		return record, nil, nil
	}
	headers, ok = nonEmptyObject(headers[HTTPHeadersKey])
	if !ok {
		return record, nil, nil
	}

	raw, present := headers[DateKey]
	if !present || raw == nil {
		return record, nil, nil
	}

	text, isString := raw.(string)
	if !isString {
		return record, nil, &models.DateParseError{
			Value: raw,
			Err:   fmt.Errorf("expected a string, got %T", raw),
		}
	}
	if text == "" {
		return record, nil, nil
	}

	parsed, err := timeutils.ParseHeaderDate(text)
	if err != nil {
		return record, nil, &models.DateParseError{Value: text, Err: err}
	}

	headers[DateKey] = parsed
	hn.logger.Trace().Str("date", text).Time("parsed", parsed).Msg("Normalized header date")
	return record, &parsed, nil
}

func nonEmptyObject(value any) (map[string]any, bool) {
	var obj map[string]any
	switch typed := value.(type) {
	case map[string]any:
		obj = typed
	case models.Record:
		obj = typed
	default:
		return nil, false
	}
	return obj, len(obj) > 0
}

// IsDateParseError reports whether err comes from an unparseable header date
func IsDateParseError(err error) bool {
	var target *models.DateParseError
	return errors.As(err, &target)
}
