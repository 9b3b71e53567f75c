package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_PreservesKeyOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"zeta":{"a":1},"alpha":[{"b":2}],"mid":"text"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Keys())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"a":1},"alpha":[{"b":2}],"mid":"text"}`, string(out))
}

func TestParseDocument_ClassifiesFields(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"single": {"x": 1},
		"many": [{"x": 1}, {"x": 2}],
		"mixed": [{"x": 1}, 3],
		"scalar": 42,
		"nothing": null,
		"empty": []
	}`))
	require.NoError(t, err)

	v, _ := doc.Get("single")
	_, ok := v.AsSingle()
	assert.True(t, ok)

	v, _ = doc.Get("many")
	records, ok := v.AsMany()
	assert.True(t, ok)
	assert.Len(t, records, 2)

	for _, key := range []string{"mixed", "scalar", "nothing"} {
		v, _ = doc.Get(key)
		_, ok = v.AsOther()
		assert.True(t, ok, key)
	}

	v, _ = doc.Get("empty")
	records, ok = v.AsMany()
	assert.True(t, ok)
	assert.Empty(t, records)
}

func TestParseDocument_KeepsNumberLiterals(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"r":{"big":12345678901234567890,"f":1.50}}`))
	require.NoError(t, err)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"r":{"big":12345678901234567890,"f":1.50}}`, string(out))
}

func TestParseDocument_Rejects(t *testing.T) {
	for name, input := range map[string]string{
		"array":    `[{"a":1}]`,
		"scalar":   `"text"`,
		"broken":   `{"a":`,
		"empty":    ``,
		"trailing": `{"a":1} {"b":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestDocument_SetKeepsPosition(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"b":2}`))
	require.NoError(t, err)

	doc.Set("a", OtherValue("x"))
	doc.Set(ResponseTimestampField, OtherValue(nil))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2,"ResponseTimestamp":null}`, string(out))
}

func TestDocument_MarshalsTimeAndNoHTMLEscape(t *testing.T) {
	doc := NewDocument()
	doc.Set("html", OtherValue("<a>&"))
	doc.Set(ResponseTimestampField, OtherValue(time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<a>&","ResponseTimestamp":"2024-10-19T12:00:00Z"}`, string(out))
}

func TestSearchQuery_MarshalJSON(t *testing.T) {
	q := SearchQuery{
		Conditions: []RangeCondition{{Path: "ts", GTE: "2024-01-01", LTE: "2024-01-31"}},
		Size:       10,
	}

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"bool":{"should":[{"range":{"ts":{"gte":"2024-01-01","lte":"2024-01-31"}}}]}},"size":10,"from":0}`, string(out))

	empty, err := json.Marshal(SearchQuery{Size: 10})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"bool":{"should":[]}},"size":10,"from":0}`, string(empty))
}

func TestUploadReport_Counts(t *testing.T) {
	report := &UploadReport{}
	report.Add(FileResult{File: "a.json", Outcome: OutcomeSuccess})
	report.Add(FileResult{File: "b.json", Outcome: OutcomeQuarantined})
	report.Add(FileResult{File: "c.json", Outcome: OutcomeSuccess})

	assert.Equal(t, 2, report.Count(OutcomeSuccess))
	assert.Equal(t, 1, report.Count(OutcomeQuarantined))
	assert.Equal(t, 0, report.Count(OutcomeFailed))

	outcome, ok := report.Outcome("b.json")
	assert.True(t, ok)
	assert.Equal(t, OutcomeQuarantined, outcome)
}
