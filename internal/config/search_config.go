package config

import (
	"github.com/aleister1102/docsync/internal/downloader"
	"github.com/aleister1102/docsync/internal/models"
)

// SearchConfig describes one saved search to download
type SearchConfig struct {
	IsEnabled       bool                     `json:"is_enabled" yaml:"is_enabled"`
	Name            string                   `json:"name" yaml:"name" validate:"required_if=IsEnabled true"`
	IndexName       string                   `json:"index_name" yaml:"index_name" validate:"required_if=IsEnabled true"`
	OutputDirectory string                   `json:"output_directory" yaml:"output_directory" validate:"required_if=IsEnabled true"`
	Filters         []models.DateRangeFilter `json:"filters" yaml:"filters" validate:"dive"`
	PageSize        int                      `json:"page_size,omitempty" yaml:"page_size,omitempty" validate:"omitempty,min=1,max=10000"`
	MaxPages        int                      `json:"max_pages,omitempty" yaml:"max_pages,omitempty" validate:"omitempty,min=1"`
}

// ToDownloaderConfig converts the paging settings, falling back to a single page of ten hits
func (sc SearchConfig) ToDownloaderConfig() downloader.Config {
	cfg := downloader.Config{
		PageSize: sc.PageSize,
		MaxPages: sc.MaxPages,
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultSearchPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultSearchMaxPages
	}
	return cfg
}
