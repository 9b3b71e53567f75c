package config

import (
	"time"

	"github.com/aleister1102/docsync/internal/elastic"
)

// EngineConfig tunes the search engine client
type EngineConfig struct {
	AuthScheme         string `json:"auth_scheme,omitempty" yaml:"auth_scheme,omitempty" validate:"omitempty,authscheme"`
	RequestTimeoutSecs int    `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxRetries         int    `json:"max_retries" yaml:"max_retries" validate:"min=0"`
	RetryBaseDelayMs   int    `json:"retry_base_delay_ms,omitempty" yaml:"retry_base_delay_ms,omitempty" validate:"omitempty,min=0"`
	RetryMaxDelayMs    int    `json:"retry_max_delay_ms,omitempty" yaml:"retry_max_delay_ms,omitempty" validate:"omitempty,min=0"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	EnableHTTP2        bool   `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultEngineConfig creates default engine configuration
func NewDefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AuthScheme:         DefaultAuthScheme,
		RequestTimeoutSecs: DefaultRequestTimeoutSecs,
		MaxRetries:         DefaultMaxRetries,
		RetryBaseDelayMs:   DefaultRetryBaseDelayMs,
		RetryMaxDelayMs:    DefaultRetryMaxDelayMs,
		EnableHTTP2:        DefaultEnableHTTP2,
	}
}

// ToElasticConfig builds the client configuration for host authenticated with token
func (ec EngineConfig) ToElasticConfig(host, token string) elastic.Config {
	return elastic.Config{
		Host:               host,
		Token:              token,
		AuthScheme:         ec.AuthScheme,
		RequestTimeout:     time.Duration(ec.RequestTimeoutSecs) * time.Second,
		MaxRetries:         ec.MaxRetries,
		RetryBaseDelay:     time.Duration(ec.RetryBaseDelayMs) * time.Millisecond,
		RetryMaxDelay:      time.Duration(ec.RetryMaxDelayMs) * time.Millisecond,
		InsecureSkipVerify: ec.InsecureSkipVerify,
		EnableHTTP2:        ec.EnableHTTP2,
	}
}
