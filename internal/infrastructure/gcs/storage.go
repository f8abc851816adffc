// Package gcs writes archived documents into a Google Cloud Storage
// bucket through the JSON API media upload endpoint.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsIntake/internal/config"
	"NewsIntake/internal/ports"
)

// Storage uploads objects into a single configured bucket.
type Storage struct {
	bucket     string
	endpoint   string
	token      string
	httpClient *http.Client
}

var _ ports.ObjectStorage = (*Storage)(nil)

// NewStorage builds the storage adapter from configuration.
func NewStorage(cfg config.StorageConfig) *Storage {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://storage.googleapis.com"
	}
	return &Storage{
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    cfg.Token,
		// No overall timeout: uploads stream arbitrarily large bodies.
		httpClient: &http.Client{Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second}},
	}
}

// WriteStream uploads body under key with a media upload, passing the
// reader straight through to the request body.
func (s *Storage) WriteStream(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is not configured")
	}

	endpoint := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		s.endpoint, url.PathEscape(s.bucket), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	req.Header.Set("Content-Type", contentType)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return s.publicURL(key), nil
}

// URI returns the gs:// reference used by the document backend.
func (s *Storage) URI(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}

func (s *Storage) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
}
