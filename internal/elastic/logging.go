package elastic

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// roundTripLogger reports every engine request to zerolog
type roundTripLogger struct {
	logger zerolog.Logger
}

func (l *roundTripLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	event := l.logger.Debug()
	if err != nil {
		event = l.logger.Warn().Err(err)
	}
	event = event.Str("method", req.Method).Str("path", req.URL.Path).Dur("duration", dur)
	if res != nil {
		event = event.Int("status_code", res.StatusCode)
	}
	event.Msg("Engine round trip")
	return nil
}

func (l *roundTripLogger) RequestBodyEnabled() bool  { return false }
func (l *roundTripLogger) ResponseBodyEnabled() bool { return false }
