package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/aleister1102/docsync/internal/common/contextutils"
	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/common/filemanager"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/aleister1102/docsync/internal/query"
	"github.com/rs/zerolog"
)

// Config controls paging of search results
type Config struct {
	PageSize int // hits per request
	MaxPages int // requests per search
}

// DefaultConfig issues a single request of query.DefaultResultSize hits
func DefaultConfig() Config {
	return Config{
		PageSize: query.DefaultResultSize,
		MaxPages: 1,
	}
}

// Downloader writes search hits to disk, one file per hit
type Downloader struct {
	searcher models.Searcher
	files    *filemanager.FileManager
	config   Config
	logger   zerolog.Logger
}

// NewDownloader creates a new Downloader reading through searcher
func NewDownloader(searcher models.Searcher, config Config, logger zerolog.Logger) *Downloader {
	if config.PageSize <= 0 {
		config.PageSize = query.DefaultResultSize
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 1
	}
	return &Downloader{
		searcher: searcher,
		files:    filemanager.NewFileManager(logger),
		config:   config,
		logger:   logger.With().Str("component", "Downloader").Logger(),
	}
}

// Download runs the OR query built from filters against indexName and writes every hit
// to <outputDir>/<searchName>/<sanitized-id>.json. The first write failure stops the run.
func (d *Downloader) Download(ctx context.Context, searchName, indexName, outputDir string, filters []models.DateRangeFilter) (*models.DownloadReport, error) {
	targetDir := filepath.Join(outputDir, searchName)
	report := &models.DownloadReport{
		SearchName: searchName,
		IndexName:  indexName,
		OutputDir:  targetDir,
		StartTime:  time.Now(),
	}
	defer func() { report.EndTime = time.Now() }()

	logger := d.logger.With().Str("search", searchName).Str("index", indexName).Logger()

	if len(filters) == 0 {
		return report, errorwrapper.NewValidationError("filters", len(filters), "at least one date range filter is required")
	}

	if err := d.files.EnsureDirectory(targetDir, 0755); err != nil {
		return report, errorwrapper.WrapError(err, "failed to prepare output directory")
	}

	fetched := 0
	for page := 0; page < d.config.MaxPages; page++ {
		if result := contextutils.CheckCancellationWithLog(ctx, logger, "download"); result.Cancelled {
			return report, result.Error
		}

		q := query.BuildPage(filters, d.config.PageSize, page*d.config.PageSize)
		res, err := d.searcher.Search(ctx, indexName, q)
		if err != nil {
			return report, errorwrapper.WrapErrorf(err, "search %s failed on page %d", searchName, page)
		}
		report.PagesFetched++
		report.TotalHits = res.TotalHits

		for _, hit := range res.Hits {
			path, err := d.writeHit(ctx, targetDir, hit)
			if err != nil {
				logger.Error().Err(err).Str("document_id", hit.DocumentID).Msg("Failed to write hit")
				return report, err
			}
			report.WrittenFiles = append(report.WrittenFiles, path)
		}
		fetched += len(res.Hits)

		if len(res.Hits) < d.config.PageSize || int64(fetched) >= res.TotalHits {
			break
		}
	}

	if report.TotalHits > int64(fetched) {
		report.Truncated = true
		logger.Warn().
			Int64("total_hits", report.TotalHits).
			Int("fetched", fetched).
			Int("max_pages", d.config.MaxPages).
			Msg("Search matched more hits than were downloaded")
	}

	logger.Info().
		Int("written", len(report.WrittenFiles)).
		Int("pages", report.PagesFetched).
		Str("output_dir", targetDir).
		Msg("Download finished")

	return report, nil
}

// writeHit pretty-prints the hit source with a two space indent.
// A hit without source is written as an empty object.
func (d *Downloader) writeHit(ctx context.Context, dir string, hit models.Hit) (string, error) {
	source := []byte(hit.Source)
	if len(bytes.TrimSpace(source)) == 0 {
		d.logger.Warn().Str("document_id", hit.DocumentID).Msg("Hit has no source, writing an empty object")
		source = []byte("{}")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, source, "", "  "); err != nil {
		return "", errorwrapper.WrapErrorf(err, "invalid source for document %s", hit.DocumentID)
	}

	path := filepath.Join(dir, FileNameForID(hit.DocumentID))
	opts := filemanager.DefaultFileWriteOptions()
	opts.Context = ctx
	if err := d.files.WriteFile(path, pretty.Bytes(), opts); err != nil {
		return "", err
	}
	return path, nil
}
