// Package extraction defines the interface to the external text-extraction
// collaborator. The collaborator receives the raw bytes of an uploaded file
// and returns the text it contains; its internals (OCR, ML parsing) are
// opaque to this service.
package extraction
