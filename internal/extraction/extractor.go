package extraction

import "context"

// Extractor extracts plain text from a file payload.
//
// Implementations may be slow and may fail; callers are expected to bound
// calls with a timeout and to record failures rather than retry them.
type Extractor interface {
	// ExtractText returns the text contained in the given file bytes.
	// mimeType declares the payload format (e.g. "application/pdf").
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}
