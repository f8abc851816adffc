// Package sanity implements the content-store client against the Sanity
// HTTP API: GROQ queries for idempotency lookups, the mutate endpoint for
// create/patch.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsIntake/internal/config"
	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// Client talks to one project/dataset of the content store.
type Client struct {
	endpoint   string
	dataset    string
	apiVersion string
	token      string
	httpClient *http.Client
}

var _ ports.ContentStore = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.ContentStoreConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		dataset:    cfg.Dataset,
		apiVersion: cfg.APIVersion,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FindByDescription returns the id of the news item whose description
// carries the given idempotency key, or "" when none exists. Stored
// descriptions are either the key alone or the key followed by
// ". Archived to GCS: <locator>", so the lookup matches the key exactly
// or as a sentence-terminated prefix. A bare prefix match would be
// wrong: the key for id "4" is a prefix of the description for id "42".
func (c *Client) FindByDescription(ctx context.Context, description string) (string, error) {
	query := `*[_type == $type && (description == $desc || string::startsWith(description, $descPrefix))][0]._id`
	params := map[string]any{
		"type":       domain.NewsItemType,
		"desc":       description,
		"descPrefix": description + ". ",
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := c.query(ctx, query, params, &result); err != nil {
		return "", fmt.Errorf("find by description: %w", err)
	}

	return result.Result, nil
}

// Create persists a new news item and returns its generated id.
func (c *Client) Create(ctx context.Context, item domain.NewsItem) (string, error) {
	payload := map[string]any{
		"mutations": []map[string]any{
			{"create": item},
		},
	}

	var resp struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := c.mutate(ctx, payload, &resp); err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}
	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return "", fmt.Errorf("create item: mutation returned no id")
	}

	return resp.Results[0].ID, nil
}

// Patch sets fields on an existing document.
func (c *Client) Patch(ctx context.Context, id string, fields map[string]any) error {
	payload := map[string]any{
		"mutations": []map[string]any{
			{"patch": map[string]any{
				"id":  id,
				"set": fields,
			}},
		},
	}

	if err := c.mutate(ctx, payload, nil); err != nil {
		return fmt.Errorf("patch item %s: %w", id, err)
	}
	return nil
}

// ResolveAttachmentURL dereferences the file asset attached to a store
// document and returns its CDN URL.
func (c *Client) ResolveAttachmentURL(ctx context.Context, docID string) (string, error) {
	query := `*[_id == $id][0].originalDoc.asset->url`
	params := map[string]any{"id": docID}

	var result struct {
		Result string `json:"result"`
	}
	if err := c.query(ctx, query, params, &result); err != nil {
		return "", fmt.Errorf("resolve attachment for %s: %w", docID, err)
	}
	if result.Result == "" {
		return "", fmt.Errorf("document %s has no attached file", docID)
	}

	return result.Result, nil
}

func (c *Client) query(ctx context.Context, groq string, params map[string]any, v any) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, param := range params {
		encoded, err := json.Marshal(param)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.endpoint, c.apiVersion, c.dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	return c.do(req, v)
}

func (c *Client) mutate(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true", c.endpoint, c.apiVersion, c.dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("content store error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
