package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// maxLocalConvertBytes bounds the download for local office conversion.
const maxLocalConvertBytes = 50 * 1024 * 1024

// Router selects the extraction strategy for an archived document:
// word-processing formats are converted locally with no network
// dependency, everything else goes to the remote document-understanding
// backend by storage URI.
type Router struct {
	converter ports.OfficeConverter
	processor ports.DocumentProcessor
	storage   ports.ObjectStorage
	client    *http.Client
	logger    *slog.Logger
}

// NewRouter wires both extraction strategies.
func NewRouter(converter ports.OfficeConverter, processor ports.DocumentProcessor, storage ports.ObjectStorage, client *http.Client, logger *slog.Logger) *Router {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		converter: converter,
		processor: processor,
		storage:   storage,
		client:    client,
		logger:    logger,
	}
}

// Extract returns the plain text of the archived document at key.
// locator is the public URL returned by the archiver; contentType is the
// declared type of the source. All failures come back as ExtractionError.
func (r *Router) Extract(ctx context.Context, key, locator, contentType string) (string, error) {
	if isWordProcessing(key, contentType) {
		return r.extractLocal(ctx, key, locator)
	}
	return r.extractRemote(ctx, key, contentType)
}

func (r *Router) extractLocal(ctx context.Context, key, locator string) (string, error) {
	if r.converter == nil {
		return "", &domain.ExtractionError{Reason: domain.ExtractReasonUnsupported, Err: fmt.Errorf("no local converter configured")}
	}

	r.logger.Debug("extracting locally", "key", key)

	data, err := r.fetchArchived(ctx, locator)
	if err != nil {
		return "", &domain.ExtractionError{Reason: domain.ExtractReasonFetch, Err: err}
	}

	text, err := r.converter.Convert(data)
	if err != nil {
		return "", &domain.ExtractionError{Reason: domain.ExtractReasonUnsupported, Err: err}
	}

	// Whitespace-only output is still a valid conversion result.
	return text, nil
}

func (r *Router) extractRemote(ctx context.Context, key, contentType string) (string, error) {
	if r.processor == nil {
		return "", &domain.ExtractionError{Reason: domain.ExtractReasonBackend, Err: fmt.Errorf("no document processor configured")}
	}

	uri := r.storage.URI(key)
	mimeType := remoteMimeType(contentType)

	r.logger.Debug("extracting remotely", "uri", uri, "mime_type", mimeType)

	text, err := r.processor.Process(ctx, uri, mimeType)
	if err != nil {
		return "", &domain.ExtractionError{Reason: domain.ExtractReasonBackend, Err: err}
	}

	return text, nil
}

func (r *Router) fetchArchived(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch archived copy: unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxLocalConvertBytes))
}

// Word-processing MIME types handled by the local converter.
var wordProcessingTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
}

func isWordProcessing(key, contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	if wordProcessingTypes[strings.TrimSpace(strings.ToLower(base))] {
		return true
	}
	switch strings.ToLower(path.Ext(key)) {
	case ".docx", ".odt":
		return true
	}
	return false
}

func remoteMimeType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.TrimSpace(base)
	if base == "" || base == "application/octet-stream" {
		return "application/pdf"
	}
	return base
}
