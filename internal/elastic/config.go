package elastic

import "time"

// Authorization schemes for the engine token
const (
	AuthSchemeAPIKey       = "api_key"
	AuthSchemeServiceToken = "service_token"
)

// Config holds connection settings for the engine client
type Config struct {
	Host               string
	Token              string
	AuthScheme         string
	RequestTimeout     time.Duration
	MaxRetries         int
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	InsecureSkipVerify bool
	EnableHTTP2        bool
}

// DefaultConfig returns default client settings for host
func DefaultConfig(host string) Config {
	return Config{
		Host:           host,
		AuthScheme:     AuthSchemeAPIKey,
		RequestTimeout: 30 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
		RetryMaxDelay:  10 * time.Second,
		EnableHTTP2:    true,
	}
}
