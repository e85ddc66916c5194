package extraction

import "errors"

// Errors returned by Extractor implementations.
var (
	// ErrInvalidConfig indicates the extractor was constructed with
	// missing or invalid settings.
	ErrInvalidConfig = errors.New("invalid extractor configuration")

	// ErrEmptyPayload indicates the file payload contained no bytes.
	ErrEmptyPayload = errors.New("file payload is empty")

	// ErrContentBlocked indicates the collaborator refused the content
	// (e.g. safety filters). This is permanent; the task fails.
	ErrContentBlocked = errors.New("content blocked by the extraction backend")

	// ErrInvalidResponse indicates the collaborator returned a response
	// the service could not use.
	ErrInvalidResponse = errors.New("invalid response from the extraction backend")
)
