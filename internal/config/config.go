package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/common/filemanager"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type GlobalConfig struct {
	ElasticHost             string            `json:"elastic_host" yaml:"elastic_host" validate:"required,url"`
	ElasticServiceTokenFile string            `json:"elastic_service_token_file" yaml:"elastic_service_token_file" validate:"required"`
	UploadConfigs           []UploadConfig    `json:"upload_configs,omitempty" yaml:"upload_configs,omitempty" validate:"dive"`
	SearchConfigs           []SearchConfig    `json:"search_configs,omitempty" yaml:"search_configs,omitempty" validate:"dive"`
	LogConfig               LogConfig         `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	EngineConfig            EngineConfig      `json:"engine_config,omitempty" yaml:"engine_config,omitempty"`
	UploadBatchConfig       UploadBatchConfig `json:"upload_batch_config,omitempty" yaml:"upload_batch_config,omitempty"`
	HistoryConfig           HistoryConfig     `json:"history_config,omitempty" yaml:"history_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		UploadConfigs:     []UploadConfig{},
		SearchConfigs:     []SearchConfig{},
		LogConfig:         NewDefaultLogConfig(),
		EngineConfig:      NewDefaultEngineConfig(),
		UploadBatchConfig: NewDefaultUploadBatchConfig(),
		HistoryConfig:     NewDefaultHistoryConfig(),
	}
}

// EnabledUploads returns the enabled upload configs in list order
func (c *GlobalConfig) EnabledUploads() []UploadConfig {
	var enabled []UploadConfig
	for _, uc := range c.UploadConfigs {
		if uc.IsEnabled {
			enabled = append(enabled, uc)
		}
	}
	return enabled
}

// EnabledSearches returns the enabled search configs in list order
func (c *GlobalConfig) EnabledSearches() []SearchConfig {
	var enabled []SearchConfig
	for _, sc := range c.SearchConfigs {
		if sc.IsEnabled {
			enabled = append(enabled, sc)
		}
	}
	return enabled
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// The file format follows the extension: .yaml/.yml is YAML, anything else JSON.
// Environment overrides are applied after the file is decoded.
// Read and decode failures are returned as *models.ConfigReadError.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, &models.ConfigReadError{
				Path: providedPath,
				Err:  errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist"),
			}
		}
		logger.Warn().Msg("No config file found, using defaults and environment")
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	fileManager := filemanager.NewFileManager(logger)
	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, &models.ConfigReadError{Path: filePath, Err: err}
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, &models.ConfigReadError{Path: filePath, Err: err}
	}

	applyEnvOverrides(cfg)
	logger.Debug().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

// loadConfigFileContent reads the config file using FileManager
func loadConfigFileContent(fileManager *filemanager.FileManager, filePath string) ([]byte, error) {
	opts := filemanager.DefaultFileReadOptions()
	opts.MaxSize = maxConfigFileSize

	return fileManager.ReadFile(filePath, opts)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

// applyEnvOverrides lets the environment replace connection settings
func applyEnvOverrides(cfg *GlobalConfig) {
	if host := os.Getenv(EnvElasticHost); host != "" {
		cfg.ElasticHost = host
	}
	if tokenFile := os.Getenv(EnvServiceTokenFile); tokenFile != "" {
		cfg.ElasticServiceTokenFile = tokenFile
	}
}
