package credentials

import (
	"errors"
	"strings"

	"github.com/aleister1102/docsync/internal/common/filemanager"
	"github.com/aleister1102/docsync/internal/models"
	"github.com/rs/zerolog"
)

// maxTokenFileSize bounds how much of a token file is read
const maxTokenFileSize = 64 * 1024

// ReadToken returns the trimmed contents of the token file at path
func ReadToken(path string, logger zerolog.Logger) (string, error) {
	if path == "" {
		return "", &models.CredentialReadError{Path: path, Err: errors.New("token file path is empty")}
	}

	fm := filemanager.NewFileManager(logger.With().Str("component", "Credentials").Logger())
	opts := filemanager.DefaultFileReadOptions()
	opts.MaxSize = maxTokenFileSize

	data, err := fm.ReadFile(path, opts)
	if err != nil {
		return "", &models.CredentialReadError{Path: path, Err: err}
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", &models.CredentialReadError{Path: path, Err: errors.New("token file is empty")}
	}
	return token, nil
}
