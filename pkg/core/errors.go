package core

import "errors"

// Common errors.
var (
	// ErrCorruptDocument is returned when a source file lacks a valid header.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrNotFound is returned when a document or output file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTemplateMissing is returned when a layout template cannot be read.
	ErrTemplateMissing = errors.New("template missing")
	// ErrPublishStepFailed is returned when staging, commit or push fails.
	ErrPublishStepFailed = errors.New("publish step failed")
	// ErrInvalidDocument is returned when a document cannot be persisted as given.
	ErrInvalidDocument = errors.New("invalid document")
)
