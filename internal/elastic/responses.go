package elastic

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []models.Hit `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

const (
	indexNotFoundType = "index_not_found_exception"
	indexExistsType   = "resource_already_exists_exception"
)

// decodeError turns a non-2xx response into an error.
// 404 and index_not_found_exception map to errorwrapper.ErrIndexNotFound.
func decodeError(res *esapi.Response, url string) error {
	body, _ := io.ReadAll(res.Body)

	var parsed errorResponse
	message := string(body)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Type != "" {
		message = fmt.Sprintf("%s: %s", parsed.Error.Type, parsed.Error.Reason)
	}
	if message == "" {
		message = http.StatusText(res.StatusCode)
	}

	httpErr := errorwrapper.NewHTTPErrorWithURL(res.StatusCode, message, url)
	if res.StatusCode == http.StatusNotFound || parsed.Error.Type == indexNotFoundType {
		return fmt.Errorf("%w: %w", errorwrapper.ErrIndexNotFound, httpErr)
	}
	return httpErr
}

func isAlreadyExists(err error) bool {
	httpErr, ok := err.(*errorwrapper.HTTPError)
	if !ok {
		return false
	}
	return httpErr.StatusCode == http.StatusBadRequest && strings.HasPrefix(httpErr.Message, indexExistsType)
}
