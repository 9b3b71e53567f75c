package uploader

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/aleister1102/docsync/internal/common/batchprocessor"
	"github.com/aleister1102/docsync/internal/common/contextutils"
	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/common/filemanager"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/aleister1102/docsync/internal/normalizer"
	"github.com/rs/zerolog"
)

// Config controls how an upload run walks its input directory
type Config struct {
	BatchSize           int
	BatchTimeout        time.Duration
	AbortOnInvalidInput bool
}

// DefaultConfig isolates invalid inputs and logs progress every 100 files
func DefaultConfig() Config {
	return Config{
		BatchSize:    100,
		BatchTimeout: 30 * time.Minute,
	}
}

// Uploader indexes every JSON file of a directory into one index
type Uploader struct {
	writer      models.IndexWriter
	transformer *normalizer.RecordSetTransformer
	files       *filemanager.FileManager
	config      Config
	logger      zerolog.Logger
}

// NewUploader creates a new Uploader writing through writer
func NewUploader(writer models.IndexWriter, config Config, logger zerolog.Logger) *Uploader {
	return &Uploader{
		writer:      writer,
		transformer: normalizer.NewRecordSetTransformer(logger),
		files:       filemanager.NewFileManager(logger),
		config:      config,
		logger:      logger.With().Str("component", "Uploader").Logger(),
	}
}

// Upload indexes every regular file of inputDir into indexName.
//
// Files that are not valid JSON objects or carry an unparseable header date are copied
// verbatim into errorDir. Indexing failures are recorded and the run continues.
// The returned error is set only for failures that stop the whole run.
func (u *Uploader) Upload(ctx context.Context, inputDir, errorDir, indexName string) (*models.UploadReport, error) {
	report := &models.UploadReport{
		InputDir:  inputDir,
		ErrorDir:  errorDir,
		IndexName: indexName,
		StartTime: time.Now(),
	}
	defer func() { report.EndTime = time.Now() }()

	logger := u.logger.With().Str("index", indexName).Str("input_dir", inputDir).Logger()

	if err := u.files.EnsureDirectory(errorDir, 0755); err != nil {
		return report, errorwrapper.WrapError(err, "failed to prepare error directory")
	}
	if u.files.SameFile(inputDir, errorDir) {
		return report, errorwrapper.NewValidationError("error_directory", errorDir, "must differ from the input directory")
	}

	if err := u.ensureIndex(ctx, indexName); err != nil {
		return report, err
	}

	entries, err := u.files.ListDirectory(inputDir)
	if err != nil {
		return report, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	processor := batchprocessor.NewBatchProcessor(batchprocessor.BatchProcessorConfig{
		BatchSize:    u.config.BatchSize,
		BatchTimeout: u.config.BatchTimeout,
		StopOnError:  true,
	}, logger)

	_, err = processor.ProcessBatches(ctx, names, func(batchCtx context.Context, batch []string, _ int) error {
		for _, name := range batch {
			if result := contextutils.CheckCancellationWithLog(ctx, logger, "upload"); result.Cancelled {
				return result.Error
			}

			fileResult, fatal := u.processFile(ctx, batchCtx, filepath.Join(inputDir, name), errorDir, indexName)
			report.Add(fileResult)
			if fatal != nil {
				return fatal
			}
		}
		return nil
	})

	logger.Info().
		Int("success", report.Count(models.OutcomeSuccess)).
		Int("quarantined", report.Count(models.OutcomeQuarantined)).
		Int("failed", report.Count(models.OutcomeFailed)).
		Int("skipped", report.Count(models.OutcomeSkipped)).
		Msg("Upload finished")

	return report, err
}

func (u *Uploader) ensureIndex(ctx context.Context, indexName string) error {
	exists, err := u.writer.IndexExists(ctx, indexName)
	if err != nil {
		return errorwrapper.WrapErrorf(err, "failed to check index %s", indexName)
	}
	if exists {
		return nil
	}

	u.logger.Info().Str("index", indexName).Msg("Index missing, creating it")
	if err := u.writer.CreateIndex(ctx, indexName); err != nil {
		return errorwrapper.WrapErrorf(err, "failed to create index %s", indexName)
	}
	return nil
}

// processFile returns the file outcome plus an error only when the run must stop.
// File operations use the batch context ctx. Only cancellation of runCtx stops the
// run, so an expired batch deadline fails the file and the next one is tried.
func (u *Uploader) processFile(runCtx, ctx context.Context, path, errorDir, indexName string) (models.FileResult, error) {
	result := models.FileResult{File: filepath.Base(path)}
	logger := u.logger.With().Str("file", path).Logger()

	if !u.files.IsRegularFile(path) {
		logger.Info().Msg("Skipping entry that is not a regular file")
		result.Outcome = models.OutcomeSkipped
		return result, nil
	}

	opts := filemanager.DefaultFileReadOptions()
	opts.Context = ctx
	data, err := u.files.ReadFile(path, opts)
	if err != nil {
		if runCtx.Err() != nil {
			return result, runCtx.Err()
		}
		logger.Error().Err(err).Msg("Failed to read input file")
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result, nil
	}

	doc, err := models.ParseDocument(data)
	if err != nil {
		return u.quarantine(ctx, result, path, errorDir, &models.DocumentParseError{File: path, Err: err})
	}

	doc, err = u.transformer.Transform(doc)
	if err != nil {
		return u.quarantine(ctx, result, path, errorDir, err)
	}

	if err := u.writer.IndexDocument(ctx, indexName, doc); err != nil {
		if runCtx.Err() != nil {
			return result, runCtx.Err()
		}
		u.logIndexError(logger, indexName, err)
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result, nil
	}

	logger.Debug().Str("index", indexName).Msg("Document indexed")
	result.Outcome = models.OutcomeSuccess
	return result, nil
}

// quarantine copies the raw input file into errorDir under its own name
func (u *Uploader) quarantine(ctx context.Context, result models.FileResult, path, errorDir string, cause error) (models.FileResult, error) {
	dst := filepath.Join(errorDir, filepath.Base(path))
	logger := u.logger.With().Str("file", path).Str("quarantine", dst).Logger()

	opts := filemanager.DefaultFileWriteOptions()
	opts.Context = ctx
	if copyErr := u.files.CopyFile(path, dst, opts); copyErr != nil {
		logger.Error().Err(copyErr).AnErr("cause", cause).Msg("Failed to quarantine invalid input")
		result.Outcome = models.OutcomeFailed
		result.Err = errors.Join(cause, copyErr)
	} else {
		logger.Error().Err(cause).Msg("Invalid input quarantined")
		result.Outcome = models.OutcomeQuarantined
		result.Err = cause
	}

	if u.config.AbortOnInvalidInput {
		return result, cause
	}
	return result, nil
}

func (u *Uploader) logIndexError(logger zerolog.Logger, indexName string, err error) {
	event := logger.Error().Err(err).Str("index", indexName)
	switch {
	case errors.Is(err, errorwrapper.ErrIndexNotFound):
		event.Msg("Index not found while indexing document")
	case errors.Is(err, errorwrapper.ErrConnectionFailure):
		event.Msg("Connection failure while indexing document")
	default:
		event.Msg("Unexpected error while indexing document")
	}
}
