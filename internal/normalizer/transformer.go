package normalizer

import (
	"time"

	"github.com/aleister1102/docsync/internal/models"
	"github.com/rs/zerolog"
)

// RecordSetTransformer normalizes every record of a document and derives ResponseTimestamp
type RecordSetTransformer struct {
	headers *HeaderNormalizer
	logger  zerolog.Logger
}

// NewRecordSetTransformer creates a new RecordSetTransformer
func NewRecordSetTransformer(logger zerolog.Logger) *RecordSetTransformer {
	return &RecordSetTransformer{
		headers: NewHeaderNormalizer(logger),
		logger:  logger.With().Str("component", "RecordSetTransformer").Logger(),
	}
}

// Transform normalizes doc in place and returns it.
//
// ResponseTimestamp is set to the shared timestamp when every collected timestamp is equal,
// set to null when no record carried one, and left untouched when they disagree.
func (t *RecordSetTransformer) Transform(doc *models.Document) (*models.Document, error) {
	if doc == nil || doc.Len() == 0 {
		empty := models.NewDocument()
		empty.Set(models.ResponseTimestampField, models.OtherValue(nil))
		return empty, nil
	}

	timestamps, err := t.collectTimestamps(doc)
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		doc.Set(models.ResponseTimestampField, models.OtherValue(nil))
		return doc, nil
	}

	first := timestamps[0]
	for _, ts := range timestamps[1:] {
		if !ts.Equal(first) {
			t.logger.Warn().
				Time("first", first).
				Time("conflicting", ts).
				Int("timestamps", len(timestamps)).
				Msg("Inconsistent header dates, leaving ResponseTimestamp unset")
			return doc, nil
		}
	}

	doc.Set(models.ResponseTimestampField, models.OtherValue(first))
	return doc, nil
}

// collectTimestamps visits fields in insertion order and list elements in list order
func (t *RecordSetTransformer) collectTimestamps(doc *models.Document) ([]time.Time, error) {
	var (
		timestamps []time.Time
		walkErr    error
	)

	visit := func(record models.Record) bool {
		_, ts, err := t.headers.Normalize(record)
		if err != nil {
			walkErr = err
			return false
		}
		if ts != nil {
			timestamps = append(timestamps, *ts)
		}
		return true
	}

	doc.Range(func(key string, value models.FieldValue) bool {
		if record, ok := value.AsSingle(); ok {
			return visit(record)
		}
		if records, ok := value.AsMany(); ok {
			for _, record := range records {
				if !visit(record) {
					return false
				}
			}
		}
		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return timestamps, nil
}
