package filemanager

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to path, truncating any existing file.
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if err := checkContext(opts.Context); err != nil {
		return errorwrapper.WrapError(err, "file write operation cancelled")
	}

	if err := fw.performFileWrite(path, opts.Permissions, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// CopyFile copies src to dst byte for byte, overwriting dst.
func (fw *FileWriter) CopyFile(src, dst string, opts FileWriteOptions) error {
	if err := checkContext(opts.Context); err != nil {
		return errorwrapper.WrapError(err, "file copy operation cancelled")
	}

	in, err := os.Open(src)
	if err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to open source file: %s", src))
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil {
			fw.logger.Error().Err(closeErr).Str("path", src).Msg("Failed to close source file after copy")
		}
	}()

	var copied int64
	if err := fw.performFileWrite(dst, opts.Permissions, func(w io.Writer) error {
		n, err := io.Copy(w, in)
		copied = n
		return err
	}); err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to copy %s to %s", src, dst))
	}

	fw.logger.Debug().Str("src", src).Str("dst", dst).Int64("bytes", copied).Msg("File copied")
	return nil
}

// performFileWrite opens path for writing and hands it to write
func (fw *FileWriter) performFileWrite(path string, perm os.FileMode, write func(io.Writer) error) error {
	if perm == 0 {
		perm = 0644
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	writeErr := write(file)
	closeErr := file.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		fw.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file after writing")
		return closeErr
	}
	return nil
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
