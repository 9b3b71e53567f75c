package elastic

import (
	"crypto/tls"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// newTransport builds the HTTP transport used by the engine client
func newTransport(cfg Config, logger zerolog.Logger) *http.Transport {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	return transport
}

// backoff returns the delay before retry attempt n (starting at 1):
// base * 2^(n-1), capped at max, plus up to 10% jitter.
func backoff(base, max time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if base <= 0 {
			return 0
		}
		if attempt < 1 {
			attempt = 1
		}

		delay := base * time.Duration(math.Pow(2, float64(attempt-1)))
		if max > 0 && (delay > max || delay <= 0) {
			delay = max
		}

		if jitterRange := delay.Milliseconds() / 10; jitterRange > 0 {
			delay += time.Duration(rand.Int63n(jitterRange)) * time.Millisecond
		}
		return delay
	}
}
