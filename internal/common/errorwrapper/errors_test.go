package errorwrapper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestWrapErrorf(t *testing.T) {
	err := WrapErrorf(ErrIndexNotFound, "indexing %s into %s", "a.json", "logs")
	assert.Equal(t, "indexing a.json into logs: index not found", err.Error())
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestNetworkError_MatchesConnectionFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("index document: %w", NewNetworkError("http://localhost:9200", "request failed", cause))

	assert.ErrorIs(t, err, ErrConnectionFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrIndexNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("filters", 0, "at least one filter is required")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "validation error: field 'filters' with value '0': at least one filter is required", err.Error())
}

func TestHTTPError(t *testing.T) {
	withURL := NewHTTPErrorWithURL(500, "boom", "/logs/_doc")
	assert.Equal(t, "HTTP 500 error for '/logs/_doc': boom", withURL.Error())

	noURL := &HTTPError{StatusCode: 400, Message: "bad"}
	assert.Equal(t, "HTTP 400 error: bad", noURL.Error())

	var target *HTTPError
	assert.True(t, errors.As(WrapError(withURL, "ctx"), &target))
	assert.Equal(t, 500, target.StatusCode)
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors(nil))
	assert.NoError(t, CombineErrors([]error{nil, nil}))

	a, b := errors.New("a"), errors.New("b")
	err := CombineErrors([]error{a, nil, b})
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}
