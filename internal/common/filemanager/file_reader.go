package filemanager

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileReader handles file reading operations
type FileReader struct {
	logger zerolog.Logger
}

// NewFileReader creates a new FileReader instance
func NewFileReader(logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger: logger.With().Str("component", "FileReader").Logger(),
	}
}

// ReadFile reads a whole file. The handle is closed before returning on every path.
func (fr *FileReader) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, errorwrapper.WrapError(err, "file read operation cancelled")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fr.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	var reader io.Reader = file
	if opts.BufferSize > 0 {
		reader = bufio.NewReaderSize(file, opts.BufferSize)
	}
	if opts.MaxSize > 0 {
		reader = io.LimitReader(reader, opts.MaxSize)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}

	fr.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("File read")
	return content, nil
}
