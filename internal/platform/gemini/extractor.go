// Package gemini implements the extraction.Extractor interface using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/examforge/paper-api/internal/config"
	"github.com/examforge/paper-api/internal/extraction"
)

// extractPrompt instructs the model to return the document text verbatim,
// with no commentary.
const extractPrompt = "Extract all text contained in the attached document. " +
	"Return the raw extracted text only, preserving the original reading " +
	"order. Do not summarize, annotate, or add any commentary."

// Extractor implements extraction.Extractor using the Gemini API.
type Extractor struct {
	logger  *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Ensure Extractor implements the extraction.Extractor interface.
var _ extraction.Extractor = (*Extractor)(nil)

// New creates a Gemini-backed Extractor from the extraction configuration.
// The context is used only for client initialization.
func New(ctx context.Context, logger *slog.Logger, cfg config.ExtractionConfig) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", extraction.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			extraction.ErrInvalidConfig, err)
	}

	return &Extractor{
		logger:  logger.With(slog.String("component", "gemini_extractor")),
		client:  client,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// ExtractText sends the file bytes to Gemini and returns the extracted
// text. The call is bounded by the configured timeout; a hung collaborator
// surfaces as a context deadline error and the task fails rather than
// staying in processing forever.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", extraction.ErrEmptyPayload
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.InfoContext(ctx, "calling Gemini for text extraction",
		slog.String("mime_type", mimeType),
		slog.Int("payload_bytes", len(data)))

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(extractPrompt),
		}, genai.RoleUser),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", extraction.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", extraction.ErrContentBlocked
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty extraction result", extraction.ErrInvalidResponse)
	}

	e.logger.InfoContext(ctx, "extraction succeeded",
		slog.Int("text_length", len(text)))

	return text, nil
}
