package config

const (
	// Environment
	EnvConfigPath       = "DOCSYNC_CONFIG_PATH"
	EnvElasticHost      = "DOCSYNC_ELASTIC_HOST"
	EnvServiceTokenFile = "DOCSYNC_ELASTIC_SERVICE_TOKEN_FILE"
	DefaultEnvFile      = ".env"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Engine Defaults
	DefaultAuthScheme         = "api_key"
	DefaultRequestTimeoutSecs = 30
	DefaultMaxRetries         = 3
	DefaultRetryBaseDelayMs   = 500
	DefaultRetryMaxDelayMs    = 10000
	DefaultEnableHTTP2        = true

	// Upload Batch Defaults
	DefaultUploadBatchSize        = 100
	DefaultUploadBatchTimeoutMins = 30

	// Search Defaults
	DefaultSearchPageSize = 10
	DefaultSearchMaxPages = 1

	// History Defaults
	DefaultHistoryEnabled    = true
	DefaultHistorySQLitePath = "database/history/docsync_history.db"

	maxConfigFileSize = 10 * 1024 * 1024
)
