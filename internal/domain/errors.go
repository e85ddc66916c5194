package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPaperType is returned when a paper type is not one of the
	// allowed values.
	ErrInvalidPaperType = errors.New("invalid paper type")

	// ErrInvalidSectionType is returned when a section type is not one of
	// the allowed values.
	ErrInvalidSectionType = errors.New("invalid section type")

	// ErrInvalidQuestionType is returned when a question type is not one of
	// the allowed values.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrTerminalTask is returned when attempting to transition a task out
	// of a terminal state.
	ErrTerminalTask = errors.New("task is in a terminal state")
)
