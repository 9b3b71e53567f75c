package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexWriter struct {
	exists      bool
	existsErr   error
	createErr   error
	created     []string
	indexed     map[string][]string
	failOnIndex map[int]error
	calls       int
}

func newFakeIndexWriter(exists bool) *fakeIndexWriter {
	return &fakeIndexWriter{exists: exists, indexed: map[string][]string{}, failOnIndex: map[int]error{}}
}

func (f *fakeIndexWriter) IndexExists(ctx context.Context, index string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeIndexWriter) CreateIndex(ctx context.Context, index string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, index)
	f.exists = true
	return nil
}

func (f *fakeIndexWriter) IndexDocument(ctx context.Context, index string, doc *models.Document) error {
	call := f.calls
	f.calls++
	if err, ok := f.failOnIndex[call]; ok {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.indexed[index] = append(f.indexed[index], string(body))
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestUploader(writer models.IndexWriter, abort bool) *Uploader {
	cfg := DefaultConfig()
	cfg.AbortOnInvalidInput = abort
	return NewUploader(writer, cfg, zerolog.Nop())
}

func TestUpload_IndexesDocumentsAndCreatesIndex(t *testing.T) {
	input := t.TempDir()
	errorDir := filepath.Join(t.TempDir(), "errors")
	writeFile(t, input, "a.json", `{"resp":{"ResponseMetadata":{"HTTPHeaders":{"date":"Fri, 19 Oct 2024 12:00:00 GMT"}}}}`)
	writeFile(t, input, "b.json", `{"plain":{"x":1}}`)

	writer := newFakeIndexWriter(false)
	report, err := newTestUploader(writer, false).Upload(context.Background(), input, errorDir, "logs")

	require.NoError(t, err)
	assert.Equal(t, []string{"logs"}, writer.created)
	assert.DirExists(t, errorDir)
	assert.Equal(t, 2, report.Count(models.OutcomeSuccess))
	require.Len(t, writer.indexed["logs"], 2)
	assert.Contains(t, writer.indexed["logs"], `{"resp":{"ResponseMetadata":{"HTTPHeaders":{"date":"2024-10-19T12:00:00Z"}}},"ResponseTimestamp":"2024-10-19T12:00:00Z"}`)
	assert.Contains(t, writer.indexed["logs"], `{"plain":{"x":1},"ResponseTimestamp":null}`)
}

func TestUpload_ExistingIndexIsNotRecreated(t *testing.T) {
	writer := newFakeIndexWriter(true)
	_, err := newTestUploader(writer, false).Upload(context.Background(), t.TempDir(), t.TempDir(), "logs")

	require.NoError(t, err)
	assert.Empty(t, writer.created)
}

func TestUpload_QuarantinesMalformedJSONByteForByte(t *testing.T) {
	input := t.TempDir()
	errorDir := t.TempDir()
	raw := "{ \"broken\": [1, 2,\n"
	writeFile(t, input, "bad.json", raw)
	writeFile(t, input, "good.json", `{"ok":{"v":true}}`)
	// a stale copy is overwritten
	writeFile(t, errorDir, "bad.json", "old content")

	writer := newFakeIndexWriter(true)
	report, err := newTestUploader(writer, false).Upload(context.Background(), input, errorDir, "logs")
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(errorDir, "bad.json"))
	require.NoError(t, err)
	assert.Equal(t, raw, string(copied))

	outcome, ok := report.Outcome("bad.json")
	require.True(t, ok)
	assert.Equal(t, models.OutcomeQuarantined, outcome)

	var parseErr *models.DocumentParseError
	for _, res := range report.Results {
		if res.File == "bad.json" {
			assert.True(t, errors.As(res.Err, &parseErr))
		}
	}

	outcome, _ = report.Outcome("good.json")
	assert.Equal(t, models.OutcomeSuccess, outcome)
	assert.Len(t, writer.indexed["logs"], 1)

	// the original is left in place
	assert.FileExists(t, filepath.Join(input, "bad.json"))
}

func TestUpload_QuarantinesMalformedDate(t *testing.T) {
	input := t.TempDir()
	errorDir := t.TempDir()
	raw := `{"r":{"ResponseMetadata":{"HTTPHeaders":{"date":"last tuesday"}}}}`
	writeFile(t, input, "date.json", raw)

	writer := newFakeIndexWriter(true)
	report, err := newTestUploader(writer, false).Upload(context.Background(), input, errorDir, "logs")
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(errorDir, "date.json"))
	require.NoError(t, err)
	assert.Equal(t, raw, string(copied))
	assert.Equal(t, 1, report.Count(models.OutcomeQuarantined))
	assert.Empty(t, writer.indexed)
}

func TestUpload_AbortOnInvalidInput(t *testing.T) {
	input := t.TempDir()
	errorDir := t.TempDir()
	writeFile(t, input, "bad.json", `not json`)

	writer := newFakeIndexWriter(true)
	report, err := newTestUploader(writer, true).Upload(context.Background(), input, errorDir, "logs")

	require.Error(t, err)
	var parseErr *models.DocumentParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.FileExists(t, filepath.Join(errorDir, "bad.json"))
	assert.Equal(t, 1, report.Count(models.OutcomeQuarantined))
}

func TestUpload_IndexErrorsAreIsolated(t *testing.T) {
	input := t.TempDir()
	for _, name := range []string{"1.json", "2.json", "3.json", "4.json"} {
		writeFile(t, input, name, `{"a":{"b":1}}`)
	}

	writer := newFakeIndexWriter(true)
	writer.failOnIndex[0] = errorwrapper.WrapError(errorwrapper.ErrIndexNotFound, "logs")
	writer.failOnIndex[1] = errorwrapper.NewNetworkError("http://localhost:9200", "request failed", errors.New("connection refused"))
	writer.failOnIndex[2] = errorwrapper.NewHTTPErrorWithURL(500, "boom", "/logs/_doc")

	report, err := newTestUploader(writer, true).Upload(context.Background(), input, t.TempDir(), "logs")

	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(models.OutcomeFailed))
	assert.Equal(t, 1, report.Count(models.OutcomeSuccess))
	assert.Equal(t, 4, writer.calls)
}

func TestUpload_SkipsNonRegularEntries(t *testing.T) {
	input := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(input, "subdir"), 0755))
	writeFile(t, input, "doc.json", `{"a":{"b":1}}`)
	_ = os.Symlink(filepath.Join(input, "missing.json"), filepath.Join(input, "dangling.json"))

	writer := newFakeIndexWriter(true)
	report, err := newTestUploader(writer, false).Upload(context.Background(), input, t.TempDir(), "logs")

	require.NoError(t, err)
	outcome, _ := report.Outcome("subdir")
	assert.Equal(t, models.OutcomeSkipped, outcome)
	if _, statErr := os.Lstat(filepath.Join(input, "dangling.json")); statErr == nil {
		outcome, _ = report.Outcome("dangling.json")
		assert.Equal(t, models.OutcomeSkipped, outcome)
	}
	assert.Equal(t, 1, report.Count(models.OutcomeSuccess))
}

func TestUpload_FatalErrors(t *testing.T) {
	t.Run("index check fails", func(t *testing.T) {
		writer := newFakeIndexWriter(false)
		writer.existsErr = errorwrapper.NewNetworkError("http://localhost:9200", "ping", errors.New("refused"))

		_, err := newTestUploader(writer, false).Upload(context.Background(), t.TempDir(), t.TempDir(), "logs")
		assert.ErrorIs(t, err, errorwrapper.ErrConnectionFailure)
	})

	t.Run("index creation fails", func(t *testing.T) {
		writer := newFakeIndexWriter(false)
		writer.createErr = errors.New("forbidden")

		_, err := newTestUploader(writer, false).Upload(context.Background(), t.TempDir(), t.TempDir(), "logs")
		assert.Error(t, err)
	})

	t.Run("input directory missing", func(t *testing.T) {
		writer := newFakeIndexWriter(true)
		_, err := newTestUploader(writer, false).Upload(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), "logs")
		assert.Error(t, err)
	})

	t.Run("error directory blocked by a file", func(t *testing.T) {
		blocker := writeFile(t, t.TempDir(), "errors", "")
		_, err := newTestUploader(newFakeIndexWriter(true), false).Upload(context.Background(), t.TempDir(), blocker, "logs")
		assert.Error(t, err)
	})

	t.Run("context cancelled", func(t *testing.T) {
		input := t.TempDir()
		writeFile(t, input, "a.json", `{"a":{"b":1}}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestUploader(newFakeIndexWriter(true), false).Upload(ctx, input, t.TempDir(), "logs")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type slowIndexWriter struct {
	*fakeIndexWriter
}

// IndexDocument blocks documents carrying a "slow" field until ctx expires
func (w *slowIndexWriter) IndexDocument(ctx context.Context, index string, doc *models.Document) error {
	if _, ok := doc.Get("slow"); ok {
		<-ctx.Done()
		return ctx.Err()
	}
	return w.fakeIndexWriter.IndexDocument(ctx, index, doc)
}

func TestUpload_BatchDeadlineFailsFileAndContinues(t *testing.T) {
	input := t.TempDir()
	writeFile(t, input, "a.json", `{"slow":{"x":1}}`)
	writeFile(t, input, "b.json", `{"fast":{"x":2}}`)

	writer := &slowIndexWriter{newFakeIndexWriter(true)}
	cfg := DefaultConfig()
	cfg.BatchSize = 1
	cfg.BatchTimeout = 50 * time.Millisecond

	report, err := NewUploader(writer, cfg, zerolog.Nop()).Upload(context.Background(), input, filepath.Join(t.TempDir(), "errors"), "logs")
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	outcome, ok := report.Outcome("a.json")
	require.True(t, ok)
	assert.Equal(t, models.OutcomeFailed, outcome)
	assert.ErrorIs(t, report.Results[0].Err, context.DeadlineExceeded)

	outcome, ok = report.Outcome("b.json")
	require.True(t, ok)
	assert.Equal(t, models.OutcomeSuccess, outcome)
	assert.Len(t, writer.indexed["logs"], 1)
}

func TestUpload_ExpiredBatchFailsRemainingFilesOfThatBatch(t *testing.T) {
	input := t.TempDir()
	writeFile(t, input, "a.json", `{"slow":{"x":1}}`)
	writeFile(t, input, "b.json", `{"fast":{"x":2}}`)
	writeFile(t, input, "c.json", `{"fast":{"x":3}}`)

	writer := &slowIndexWriter{newFakeIndexWriter(true)}
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	cfg.BatchTimeout = 50 * time.Millisecond

	report, err := NewUploader(writer, cfg, zerolog.Nop()).Upload(context.Background(), input, filepath.Join(t.TempDir(), "errors"), "logs")
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Count(models.OutcomeFailed))
	assert.Equal(t, 1, report.Count(models.OutcomeSuccess))

	outcome, _ := report.Outcome("c.json")
	assert.Equal(t, models.OutcomeSuccess, outcome)
}

func TestUpload_RejectsErrorDirEqualToInputDir(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{not json`)

	writer := newFakeIndexWriter(true)
	for name, errorDir := range map[string]string{
		"same path":       dir,
		"equivalent path": filepath.Join(dir, "sub", ".."),
	} {
		t.Run(name, func(t *testing.T) {
			report, err := newTestUploader(writer, false).Upload(context.Background(), dir, errorDir, "logs")
			assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
			assert.Empty(t, report.Results)

			data, readErr := os.ReadFile(bad)
			require.NoError(t, readErr)
			assert.Equal(t, "{not json", string(data))
		})
	}
	assert.Zero(t, writer.calls)
}
