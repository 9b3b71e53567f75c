package config

import (
	"time"

	"github.com/aleister1102/docsync/internal/uploader"
)

// UploadConfig describes one directory to index
type UploadConfig struct {
	IsEnabled      bool   `json:"is_enabled" yaml:"is_enabled"`
	InputDirectory string `json:"input_directory" yaml:"input_directory" validate:"required_if=IsEnabled true"`
	ErrorDirectory string `json:"error_directory" yaml:"error_directory" validate:"required_if=IsEnabled true"`
	IndexName      string `json:"index_name" yaml:"index_name" validate:"required_if=IsEnabled true"`
}

// UploadBatchConfig defines how upload runs walk their input directory
type UploadBatchConfig struct {
	BatchSize           int  `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"omitempty,min=1"`
	BatchTimeoutMins    int  `json:"batch_timeout_mins,omitempty" yaml:"batch_timeout_mins,omitempty" validate:"omitempty,min=1"`
	AbortOnInvalidInput bool `json:"abort_on_invalid_input" yaml:"abort_on_invalid_input"`
}

// NewDefaultUploadBatchConfig creates default upload batch configuration
func NewDefaultUploadBatchConfig() UploadBatchConfig {
	return UploadBatchConfig{
		BatchSize:        DefaultUploadBatchSize,
		BatchTimeoutMins: DefaultUploadBatchTimeoutMins,
	}
}

// ToUploaderConfig converts UploadBatchConfig to uploader.Config
func (ubc UploadBatchConfig) ToUploaderConfig() uploader.Config {
	return uploader.Config{
		BatchSize:           ubc.BatchSize,
		BatchTimeout:        time.Duration(ubc.BatchTimeoutMins) * time.Minute,
		AbortOnInvalidInput: ubc.AbortOnInvalidInput,
	}
}
