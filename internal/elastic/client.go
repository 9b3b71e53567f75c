package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/rs/zerolog"
)

var _ models.SearchEngine = (*Client)(nil)

// Client implements the engine capability over go-elasticsearch
type Client struct {
	es     *elasticsearch.Client
	config Config
	logger zerolog.Logger
}

// NewClient creates a client for cfg.Host authenticated with cfg.Token
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	componentLogger := logger.With().Str("component", "ElasticClient").Str("host", cfg.Host).Logger()

	if cfg.Host == "" {
		return nil, errorwrapper.NewValidationError("elastic_host", cfg.Host, "host is required")
	}

	esCfg := elasticsearch.Config{
		Addresses:    []string{cfg.Host},
		Transport:    newTransport(cfg, componentLogger),
		Logger:       &roundTripLogger{logger: componentLogger},
		RetryBackoff: backoff(cfg.RetryBaseDelay, cfg.RetryMaxDelay),
	}
	if cfg.MaxRetries > 0 {
		esCfg.MaxRetries = cfg.MaxRetries
	} else {
		esCfg.DisableRetry = true
	}

	switch cfg.AuthScheme {
	case AuthSchemeServiceToken:
		esCfg.ServiceToken = cfg.Token
	case AuthSchemeAPIKey, "":
		esCfg.APIKey = cfg.Token
	default:
		return nil, errorwrapper.NewValidationError("auth_scheme", cfg.AuthScheme, "must be api_key or service_token")
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create elasticsearch client")
	}

	componentLogger.Debug().
		Str("auth_scheme", cfg.AuthScheme).
		Int("max_retries", cfg.MaxRetries).
		Dur("request_timeout", cfg.RequestTimeout).
		Bool("http2_enabled", cfg.EnableHTTP2).
		Msg("Elasticsearch client created")

	return &Client{es: es, config: cfg, logger: componentLogger}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}

// Ping reports whether the engine answers
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Msg("Ping failed")
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		c.logger.Warn().Int("status_code", res.StatusCode).Msg("Ping returned an error status")
		return false
	}
	return true
}

// IndexExists reports whether index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, c.networkError(index, "index exists request failed", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, decodeError(res, "/"+index)
	}
}

// CreateIndex creates index with default settings. An index created concurrently is not an error.
func (c *Client) CreateIndex(ctx context.Context, index string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Create(index, c.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return c.networkError(index, "create index request failed", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		err := decodeError(res, "/"+index)
		if isAlreadyExists(err) {
			c.logger.Debug().Str("index", index).Msg("Index already exists")
			return nil
		}
		return err
	}

	c.logger.Info().Str("index", index).Msg("Index created")
	return nil
}

// IndexDocument stores doc in index under a generated id
func (c *Client) IndexDocument(ctx context.Context, index string, doc *models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode document")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Index(index, bytes.NewReader(body), c.es.Index.WithContext(ctx))
	if err != nil {
		return c.networkError(index, "index request failed", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(res, "/"+index+"/_doc")
	}
	return nil
}

// Search runs query against index and returns one page of hits
func (c *Client) Search(ctx context.Context, index string, query models.SearchQuery) (*models.SearchResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to encode query")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, c.networkError(index, "search request failed", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(res, "/"+index+"/_search")
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode search response")
	}

	return &models.SearchResult{
		TotalHits: parsed.Hits.Total.Value,
		Hits:      parsed.Hits.Hits,
	}, nil
}

func (c *Client) networkError(index, reason string, err error) error {
	return errorwrapper.NewNetworkError(c.config.Host+"/"+index, reason, err)
}
