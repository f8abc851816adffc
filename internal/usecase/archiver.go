package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// Archiver copies a source file from a fetchable URL into long-term
// object storage. The body is streamed straight through; large
// attachments never sit fully in memory.
type Archiver struct {
	storage ports.ObjectStorage
	client  *http.Client
	logger  *slog.Logger
}

// NewArchiver wires the storage backend; a nil client gets a default with
// a generous fetch timeout.
func NewArchiver(storage ports.ObjectStorage, client *http.Client, logger *slog.Logger) *Archiver {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{storage: storage, client: client, logger: logger}
}

// Archive fetches sourceURL and writes it under key. It returns the
// public locator and the content type reported by the source.
func (a *Archiver) Archive(ctx context.Context, sourceURL, key string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", "", &domain.FetchError{URL: sourceURL, Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", "", &domain.FetchError{URL: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", "", &domain.FetchError{URL: sourceURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	locator, err := a.storage.WriteStream(ctx, key, resp.Body, contentType)
	if err != nil {
		return "", "", &domain.StorageError{Key: key, Err: err}
	}

	a.logger.Info("archived source document", "key", key, "locator", locator)
	return locator, contentType, nil
}

// BuildKey derives the deterministic archive key for a submission:
// ingestion folder by origin, submission id, unique time suffix, inferred
// extension. Retries of the same submission never collide.
func BuildKey(origin domain.Origin, externalID, sourceURL string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%d%s",
		origin.Folder(),
		sanitizeID(externalID),
		now.UnixMilli(),
		inferExtension(sourceURL),
	)
}

func sanitizeID(id string) string {
	id = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if id == "" {
		return "submission"
	}
	return id
}

func inferExtension(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ".pdf"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".pdf", ".docx", ".doc", ".odt", ".txt":
		return ext
	}
	return ".pdf"
}
