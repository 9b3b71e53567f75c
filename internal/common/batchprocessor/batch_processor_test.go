package batchprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchProcessor_DefaultsBatchSize(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{}, zerolog.Nop())
	assert.Equal(t, DefaultBatchProcessorConfig().BatchSize, bp.config.BatchSize)
}

func TestBatchProcessor_ShouldUseBatching(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: 10}, zerolog.Nop())

	assert.False(t, bp.ShouldUseBatching(5))
	assert.False(t, bp.ShouldUseBatching(10))
	assert.True(t, bp.ShouldUseBatching(11))
}

func TestBatchProcessor_SplitIntoBatches(t *testing.T) {
	tests := []struct {
		name            string
		batchSize       int
		input           []string
		expectedBatches int
	}{
		{name: "empty input", batchSize: 3, input: []string{}, expectedBatches: 0},
		{name: "single batch", batchSize: 5, input: []string{"a", "b", "c"}, expectedBatches: 1},
		{name: "multiple batches", batchSize: 2, input: []string{"a", "b", "c", "d", "e"}, expectedBatches: 3},
		{name: "exact batch size", batchSize: 3, input: []string{"a", "b", "c", "d", "e", "f"}, expectedBatches: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: tt.batchSize}, zerolog.Nop())

			batches := bp.SplitIntoBatches(tt.input)
			assert.Len(t, batches, tt.expectedBatches)

			var flattened []string
			for _, batch := range batches {
				assert.LessOrEqual(t, len(batch), tt.batchSize)
				flattened = append(flattened, batch...)
			}
			assert.Equal(t, len(tt.input), len(flattened))
			if len(tt.input) > 0 {
				assert.Equal(t, tt.input, flattened)
			}
		})
	}
}

func TestBatchProcessor_ProcessBatches_PreservesOrder(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: 2, BatchTimeout: time.Minute}, zerolog.Nop())

	input := []string{"a", "b", "c", "d", "e"}
	var processed []string

	results, err := bp.ProcessBatches(context.Background(), input, func(ctx context.Context, batch []string, batchIndex int) error {
		processed = append(processed, batch...)
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, input, processed)
	for _, result := range results {
		assert.True(t, result.Success)
		assert.Greater(t, result.Processed, 0)
	}
}

func TestBatchProcessor_ProcessBatches_ContinuesAfterError(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: 2}, zerolog.Nop())
	boom := errors.New("boom")

	results, err := bp.ProcessBatches(context.Background(), []string{"a", "b", "c", "d"}, func(ctx context.Context, batch []string, batchIndex int) error {
		if batchIndex == 0 {
			return boom
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.ErrorIs(t, results[0].Error, boom)
	assert.True(t, results[1].Success)
}

func TestBatchProcessor_ProcessBatches_StopOnError(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: 1, StopOnError: true}, zerolog.Nop())
	boom := errors.New("boom")
	calls := 0

	results, err := bp.ProcessBatches(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, batch []string, batchIndex int) error {
		calls++
		if batch[0] == "b" {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Len(t, results, 2)
}

func TestBatchProcessor_ProcessBatches_Cancelled(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{BatchSize: 1}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	results, err := bp.ProcessBatches(ctx, []string{"a", "b", "c"}, func(ctx context.Context, batch []string, batchIndex int) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1)
}
