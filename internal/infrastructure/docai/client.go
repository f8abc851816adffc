// Package docai calls the Document AI processor endpoint to extract full
// document text from archived files.
package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsIntake/internal/config"
	"NewsIntake/internal/ports"
)

// Client invokes one configured processor synchronously.
type Client struct {
	endpoint    string
	projectID   string
	processorID string
	location    string
	token       string
	httpClient  *http.Client
}

var _ ports.DocumentProcessor = (*Client)(nil)

// NewClient builds a client from configuration. The token is a bearer
// credential for the processor's project.
func NewClient(cfg config.DocAIConfig, token string) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://documentai.googleapis.com"
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}
	return &Client{
		endpoint:    strings.TrimRight(endpoint, "/"),
		projectID:   cfg.ProjectID,
		processorID: cfg.ProcessorID,
		location:    location,
		token:       token,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Process runs the processor over the document at storageURI and returns
// the extracted text.
func (c *Client) Process(ctx context.Context, storageURI, mimeType string) (string, error) {
	if c.processorID == "" {
		return "", fmt.Errorf("document processor id is not configured")
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.projectID, c.location, c.processorID)

	body, err := json.Marshal(map[string]any{
		"gcsDocument": map[string]string{
			"gcsUri":   storageURI,
			"mimeType": mimeType,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/%s:process", c.endpoint, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("process document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("document backend error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Document struct {
			Text string `json:"text"`
		} `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return result.Document.Text, nil
}
