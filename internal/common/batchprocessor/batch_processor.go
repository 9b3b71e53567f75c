package batchprocessor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessorConfig holds configuration for batch processing
type BatchProcessorConfig struct {
	BatchSize    int           // Max items per batch (default: 100)
	BatchTimeout time.Duration // Timeout per batch (default: 30 minutes)
	StopOnError  bool          // Stop at the first batch that returns an error
}

// DefaultBatchProcessorConfig returns default configuration
func DefaultBatchProcessorConfig() BatchProcessorConfig {
	return BatchProcessorConfig{
		BatchSize:    100,
		BatchTimeout: 30 * time.Minute,
		StopOnError:  false,
	}
}

// BatchResult holds the result of a batch processing
type BatchResult struct {
	BatchIndex int
	Success    bool
	Error      error
	Processed  int
	Duration   time.Duration
}

// BatchProcessor splits a list of work items into batches and runs them in order
type BatchProcessor struct {
	config BatchProcessorConfig
	logger zerolog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(config BatchProcessorConfig, logger zerolog.Logger) *BatchProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchProcessorConfig().BatchSize
	}
	return &BatchProcessor{
		config: config,
		logger: logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

// ProcessFunc defines the function signature for processing a batch
type ProcessFunc func(ctx context.Context, batch []string, batchIndex int) error

// ShouldUseBatching determines if batching should be used based on input size
func (bp *BatchProcessor) ShouldUseBatching(inputSize int) bool {
	return inputSize > bp.config.BatchSize
}

// SplitIntoBatches splits a slice of strings into batches, keeping input order
func (bp *BatchProcessor) SplitIntoBatches(input []string) [][]string {
	if len(input) == 0 {
		return nil
	}
	if len(input) <= bp.config.BatchSize {
		return [][]string{input}
	}

	var batches [][]string
	for i := 0; i < len(input); i += bp.config.BatchSize {
		end := min(i+bp.config.BatchSize, len(input))
		batches = append(batches, input[i:end])
	}

	return batches
}

// ProcessBatches runs processFunc over every batch sequentially.
// With StopOnError the first failing batch ends the run and its error is returned.
// Cancellation of ctx is always returned.
func (bp *BatchProcessor) ProcessBatches(
	ctx context.Context,
	input []string,
	processFunc ProcessFunc,
) ([]BatchResult, error) {
	batches := bp.SplitIntoBatches(input)
	if bp.ShouldUseBatching(len(input)) {
		bp.logger.Info().
			Int("total_items", len(input)).
			Int("batch_count", len(batches)).
			Int("batch_size", bp.config.BatchSize).
			Msg("Starting batch processing")
	}

	results := make([]BatchResult, 0, len(batches))

	for i, batch := range batches {
		select {
		case <-ctx.Done():
			bp.logger.Info().
				Int("completed_batches", i).
				Int("total_batches", len(batches)).
				Msg("Batch processing interrupted by context cancellation")
			return results, ctx.Err()
		default:
		}

		result, err := bp.runBatch(ctx, batch, i, processFunc)
		results = append(results, result)

		bp.logger.Debug().
			Int("batch_index", i).
			Bool("success", err == nil).
			Dur("duration", result.Duration).
			Int("processed", len(batch)).
			Int("progress", i+1).
			Int("total", len(batches)).
			Msg("Batch processing completed")

		if err != nil {
			bp.logger.Error().
				Err(err).
				Int("batch_index", i).
				Msg("Batch processing failed")
			if bp.config.StopOnError {
				return results, err
			}
		}
	}

	return results, nil
}

func (bp *BatchProcessor) runBatch(ctx context.Context, batch []string, index int, processFunc ProcessFunc) (BatchResult, error) {
	batchCtx := ctx
	if bp.config.BatchTimeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, bp.config.BatchTimeout)
		defer cancel()
	}

	start := time.Now()
	err := processFunc(batchCtx, batch, index)

	return BatchResult{
		BatchIndex: index,
		Success:    err == nil,
		Error:      err,
		Processed:  len(batch),
		Duration:   time.Since(start),
	}, err
}
