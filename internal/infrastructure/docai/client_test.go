package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsIntake/internal/config"
)

func TestProcess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v1/projects/proj/locations/eu/processors/proc-1:process"
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			GCSDocument struct {
				GCSURI   string `json:"gcsUri"`
				MimeType string `json:"mimeType"`
			} `json:"gcsDocument"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GCSDocument.GCSURI != "gs://bucket/automated/42.pdf" {
			t.Errorf("unexpected uri: %s", req.GCSDocument.GCSURI)
		}
		if req.GCSDocument.MimeType != "application/pdf" {
			t.Errorf("unexpected mime: %s", req.GCSDocument.MimeType)
		}

		_, _ = w.Write([]byte(`{"document":{"text":"Extracted release text."}}`))
	}))
	defer server.Close()

	c := NewClient(config.DocAIConfig{
		Endpoint:    server.URL,
		ProjectID:   "proj",
		ProcessorID: "proc-1",
		Location:    "eu",
	}, "tok")

	text, err := c.Process(context.Background(), "gs://bucket/automated/42.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if text != "Extracted release text." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestProcessBackendError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(config.DocAIConfig{Endpoint: server.URL, ProjectID: "p", ProcessorID: "x"}, "")

	_, err := c.Process(context.Background(), "gs://b/k", "application/pdf")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestProcessRequiresProcessor(t *testing.T) {
	t.Parallel()

	c := NewClient(config.DocAIConfig{}, "")

	if _, err := c.Process(context.Background(), "gs://b/k", "application/pdf"); err == nil {
		t.Fatalf("expected error for missing processor id")
	}
}
