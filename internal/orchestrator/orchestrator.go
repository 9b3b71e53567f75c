package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/docsync/internal/common/contextutils"
	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/config"
	"github.com/aleister1102/docsync/internal/downloader"
	"github.com/aleister1102/docsync/internal/history"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/aleister1102/docsync/internal/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mode selects which configured runs are executed
type Mode string

const (
	ModeUpload   Mode = "upload"
	ModeDownload Mode = "download"
	ModeSync     Mode = "sync"
)

// ParseMode maps a CLI value to a Mode. An empty value means sync.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeSync:
		return ModeSync, nil
	case ModeUpload:
		return ModeUpload, nil
	case ModeDownload:
		return ModeDownload, nil
	default:
		return "", errorwrapper.NewValidationError("mode", value, "must be one of upload, download, sync")
	}
}

// RunRecorder persists the start and end of each upload or download run.
// *history.DB satisfies it.
type RunRecorder interface {
	RecordRunStart(runID, kind, target, indexName string, startTime time.Time) (int64, error)
	UpdateRunCompletion(dbRunID int64, completion history.RunCompletion) error
	GetLastCompletedRunTime(kind, target string) (*time.Time, error)
}

// RunSummary collects the reports produced by one invocation
type RunSummary struct {
	RunID     string
	Uploads   []*models.UploadReport
	Downloads []*models.DownloadReport
}

// Orchestrator executes the enabled upload and search configs in list order
type Orchestrator struct {
	cfg      *config.GlobalConfig
	engine   models.SearchEngine
	recorder RunRecorder
	runID    string
	logger   zerolog.Logger
}

// NewOrchestrator creates an Orchestrator. recorder may be nil when history is disabled.
// An empty runID is replaced with a fresh UUID.
func NewOrchestrator(cfg *config.GlobalConfig, engine models.SearchEngine, recorder RunRecorder, runID string, logger zerolog.Logger) *Orchestrator {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Orchestrator{
		cfg:      cfg,
		engine:   engine,
		recorder: recorder,
		runID:    runID,
		logger:   logger.With().Str("component", "Orchestrator").Str("run_id", runID).Logger(),
	}
}

// RunID returns the identifier shared by every history row of this invocation
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run executes uploads, downloads or both (uploads first) depending on mode.
// Failures of one config do not stop the next; they are combined into the returned error.
// Cancellation stops the run immediately.
func (o *Orchestrator) Run(ctx context.Context, mode Mode) (*RunSummary, error) {
	summary := &RunSummary{RunID: o.runID}
	var errs []error

	if mode == ModeUpload || mode == ModeSync {
		reports, err := o.RunUploads(ctx)
		summary.Uploads = reports
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			errs = append(errs, err)
		}
	}

	if mode == ModeDownload || mode == ModeSync {
		reports, err := o.RunDownloads(ctx)
		summary.Downloads = reports
		if err != nil {
			errs = append(errs, err)
		}
	}

	return summary, errorwrapper.CombineErrors(errs)
}

// RunUploads indexes every enabled upload config
func (o *Orchestrator) RunUploads(ctx context.Context) ([]*models.UploadReport, error) {
	enabled := o.cfg.EnabledUploads()
	if len(enabled) == 0 {
		o.logger.Info().Msg("No enabled upload configs")
		return nil, nil
	}

	up := uploader.NewUploader(o.engine, o.cfg.UploadBatchConfig.ToUploaderConfig(), o.logger)

	var reports []*models.UploadReport
	var errs []error
	for _, uc := range enabled {
		if result := contextutils.CheckCancellationWithLog(ctx, o.logger, "uploads"); result.Cancelled {
			return reports, result.Error
		}

		dbID := o.recordStart(history.KindUpload, uc.InputDirectory, uc.IndexName)
		report, err := up.Upload(ctx, uc.InputDirectory, uc.ErrorDirectory, uc.IndexName)
		reports = append(reports, report)
		o.recordUploadCompletion(dbID, report, err)

		if err != nil {
			o.logger.Error().Err(err).Str("input_dir", uc.InputDirectory).Str("index", uc.IndexName).Msg("Upload run failed")
			if ctx.Err() != nil {
				return reports, err
			}
			errs = append(errs, errorwrapper.WrapErrorf(err, "upload %s into %s", uc.InputDirectory, uc.IndexName))
		}
	}
	return reports, errorwrapper.CombineErrors(errs)
}

// RunDownloads executes every enabled search config
func (o *Orchestrator) RunDownloads(ctx context.Context) ([]*models.DownloadReport, error) {
	enabled := o.cfg.EnabledSearches()
	if len(enabled) == 0 {
		o.logger.Info().Msg("No enabled search configs")
		return nil, nil
	}

	var reports []*models.DownloadReport
	var errs []error
	for _, sc := range enabled {
		if result := contextutils.CheckCancellationWithLog(ctx, o.logger, "downloads"); result.Cancelled {
			return reports, result.Error
		}

		dl := downloader.NewDownloader(o.engine, sc.ToDownloaderConfig(), o.logger)
		dbID := o.recordStart(history.KindDownload, sc.Name, sc.IndexName)
		report, err := dl.Download(ctx, sc.Name, sc.IndexName, sc.OutputDirectory, sc.Filters)
		reports = append(reports, report)
		o.recordDownloadCompletion(dbID, report, err)

		if err != nil {
			o.logger.Error().Err(err).Str("search", sc.Name).Str("index", sc.IndexName).Msg("Download run failed")
			if ctx.Err() != nil {
				return reports, err
			}
			errs = append(errs, errorwrapper.WrapErrorf(err, "download %s from %s", sc.Name, sc.IndexName))
		}
	}
	return reports, errorwrapper.CombineErrors(errs)
}

// recordStart logs the previous completed run of target and returns 0 when no row was written
func (o *Orchestrator) recordStart(kind, target, indexName string) int64 {
	if o.recorder == nil {
		return 0
	}
	o.logPreviousRun(kind, target)

	id, err := o.recorder.RecordRunStart(o.runID, kind, target, indexName, time.Now())
	if err != nil {
		o.logger.Warn().Err(err).Str("kind", kind).Str("target", target).Msg("Failed to record run start")
		return 0
	}
	return id
}

func (o *Orchestrator) logPreviousRun(kind, target string) {
	last, err := o.recorder.GetLastCompletedRunTime(kind, target)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		o.logger.Info().Str("kind", kind).Str("target", target).Msg("No previous completed run")
	case err != nil:
		o.logger.Warn().Err(err).Str("kind", kind).Str("target", target).Msg("Failed to look up previous run")
	default:
		o.logger.Info().Str("kind", kind).Str("target", target).Time("previous_completed_run", *last).Msg("Found previous completed run")
	}
}

func (o *Orchestrator) recordUploadCompletion(dbID int64, report *models.UploadReport, runErr error) {
	completion := history.RunCompletion{
		EndTime: time.Now(),
		Status:  statusFor(runErr),
		Err:     runErr,
	}
	if report != nil {
		completion.Succeeded = report.Count(models.OutcomeSuccess)
		completion.Quarantined = report.Count(models.OutcomeQuarantined)
		completion.Failed = report.Count(models.OutcomeFailed)
		completion.Skipped = report.Count(models.OutcomeSkipped)
	}
	o.recordCompletion(dbID, completion)
}

func (o *Orchestrator) recordDownloadCompletion(dbID int64, report *models.DownloadReport, runErr error) {
	completion := history.RunCompletion{
		EndTime: time.Now(),
		Status:  statusFor(runErr),
		Err:     runErr,
	}
	if report != nil {
		completion.Succeeded = len(report.WrittenFiles)
	}
	o.recordCompletion(dbID, completion)
}

func (o *Orchestrator) recordCompletion(dbID int64, completion history.RunCompletion) {
	if o.recorder == nil || dbID == 0 {
		return
	}
	if err := o.recorder.UpdateRunCompletion(dbID, completion); err != nil {
		o.logger.Warn().Err(err).Int64("db_id", dbID).Msg("Failed to record run completion")
	}
}

func statusFor(err error) string {
	if err != nil {
		return history.StatusFailed
	}
	return history.StatusCompleted
}

// String renders the summary as a one line log message
func (s *RunSummary) String() string {
	written := 0
	for _, d := range s.Downloads {
		if d != nil {
			written += len(d.WrittenFiles)
		}
	}
	indexed := 0
	for _, u := range s.Uploads {
		if u != nil {
			indexed += u.Count(models.OutcomeSuccess)
		}
	}
	return fmt.Sprintf("run %s: %d upload runs (%d documents indexed), %d download runs (%d files written)",
		s.RunID, len(s.Uploads), indexed, len(s.Downloads), written)
}
