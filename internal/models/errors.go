package models

import "fmt"

// ConfigReadError means the configuration file could not be read or decoded
type ConfigReadError struct {
	Path string
	Err  error
}

func (e *ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config %s: %v", e.Path, e.Err)
}

func (e *ConfigReadError) Unwrap() error { return e.Err }

// CredentialReadError means the service token file could not be read
type CredentialReadError struct {
	Path string
	Err  error
}

func (e *CredentialReadError) Error() string {
	return fmt.Sprintf("failed to read credential %s: %v", e.Path, e.Err)
}

func (e *CredentialReadError) Unwrap() error { return e.Err }

// DocumentParseError means an input file is not a JSON object
type DocumentParseError struct {
	File string
	Err  error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("failed to parse document %s: %v", e.File, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// DateParseError means a header date value could not be parsed
type DateParseError struct {
	Value any
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("failed to parse header date %v: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }
