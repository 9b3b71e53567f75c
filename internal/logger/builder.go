package logger

import (
	"io"
	stdlog "log"
	"os"

	"github.com/aleister1102/docsync/internal/common/errorwrapper"
	"github.com/aleister1102/docsync/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config        LoggerConfig
	factory       *WriterFactory
	consoleOutput io.Writer
	configErr     error
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:        DefaultLoggerConfig(),
		factory:       NewWriterFactory(),
		consoleOutput: os.Stderr,
	}
}

// WithConfig sets the logger configuration from application settings
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	loggerConfig, err := ConvertConfig(cfg)
	lb.config = loggerConfig
	lb.configErr = err
	return lb
}

// WithRunID sets the run ID for organizing log files by run
func (lb *LoggerBuilder) WithRunID(runID string) *LoggerBuilder {
	lb.config.RunID = runID
	return lb
}

// WithConsoleOutput redirects console output, stderr by default
func (lb *LoggerBuilder) WithConsoleOutput(output io.Writer) *LoggerBuilder {
	lb.consoleOutput = output
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if err := lb.validateConfig(); err != nil {
		return nil, err
	}

	writers, closers := lb.createWriters()
	if len(writers) == 0 {
		return nil, errorwrapper.NewError("no output writers configured")
	}

	zerologInstance := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()
	if lb.config.RunID != "" {
		zerologInstance = zerologInstance.With().Str("run_id", lb.config.RunID).Logger()
	}

	zerolog.SetGlobalLevel(lb.config.Level)
	stdlog.SetOutput(zerologInstance)
	stdlog.SetFlags(0)

	return &Logger{
		zerolog: zerologInstance,
		config:  lb.config,
		closers: closers,
	}, nil
}

// validateConfig validates the logger configuration
func (lb *LoggerBuilder) validateConfig() error {
	if lb.configErr != nil {
		return lb.configErr
	}

	if lb.config.EnableFile && lb.config.FilePath == "" {
		return errorwrapper.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}

	if lb.config.MaxSizeMB <= 0 {
		return errorwrapper.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}

	return nil
}

// createWriters creates the appropriate writers based on configuration
func (lb *LoggerBuilder) createWriters() ([]io.Writer, []io.Closer) {
	var (
		writers []io.Writer
		closers []io.Closer
	)

	if lb.config.EnableConsole && lb.consoleOutput != nil {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format, lb.consoleOutput))
	}

	if lb.config.EnableFile {
		writer, closer := lb.factory.CreateFileWriter(lb.config)
		writers = append(writers, writer)
		closers = append(closers, closer)
	}

	return writers, closers
}
