package usecase

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"NewsIntake/internal/ports"
)

// MockDraft is returned when no generative backend is configured.
const MockDraft = "This is a mock AI response because no generator credential was set."

// FailedDraft is returned when the generative backend errors out.
const FailedDraft = "Error generating content. Please check logs."

// DraftGenerator rewrites extracted text into an article draft. It is
// fail-open: every call yields non-empty draft text.
type DraftGenerator struct {
	backend  ports.TextGenerator
	prompt   string
	maxChars int
	logger   *slog.Logger
}

// NewDraftGenerator wires the rewrite backend. A nil backend enables mock
// mode for local and test operation.
func NewDraftGenerator(backend ports.TextGenerator, systemPrompt string, maxInputChars int, logger *slog.Logger) *DraftGenerator {
	if maxInputChars <= 0 {
		maxInputChars = 30000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftGenerator{
		backend:  backend,
		prompt:   systemPrompt,
		maxChars: maxInputChars,
		logger:   logger,
	}
}

// Generate returns the rewritten draft and whether the rewrite succeeded.
// On backend failure the draft is a labeled placeholder, never empty.
func (g *DraftGenerator) Generate(ctx context.Context, text string) (string, bool) {
	text = truncate(text, g.maxChars)

	if g.backend == nil {
		g.logger.Warn("generator credential missing, returning mock draft")
		return MockDraft, true
	}

	prompt := g.prompt + "\n\nOriginal Text:\n" + text

	draft, err := g.backend.Complete(ctx, prompt)
	if err != nil {
		g.logger.Error("draft generation failed", "error", err)
		return FailedDraft, false
	}
	if strings.TrimSpace(draft) == "" {
		g.logger.Error("draft generation returned empty text")
		return FailedDraft, false
	}

	return draft, true
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
