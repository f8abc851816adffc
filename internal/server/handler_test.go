package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"NewsIntake/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProcessor struct {
	got    domain.Submission
	result domain.Result
	err    error
	calls  int
}

func (f *fakeProcessor) Process(_ context.Context, sub domain.Submission) (domain.Result, error) {
	f.calls++
	f.got = sub
	return f.result, f.err
}

func newTestRouter(p Processor) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewHandler(p, logger))
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProcessDirectFileURL(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{result: domain.Result{ItemID: "item-1", Message: "Document processed"}}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-1","fileUrl":"https://files.example.com/release.pdf"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if p.calls != 1 {
		t.Fatalf("expected one pipeline call, got %d", p.calls)
	}

	sub := p.got
	if sub.ExternalID != "doc-1" || sub.StoreDocID != "doc-1" {
		t.Errorf("unexpected ids: %q %q", sub.ExternalID, sub.StoreDocID)
	}
	if sub.Attachment == nil || sub.Attachment.Kind != domain.AttachmentDirect {
		t.Fatalf("expected direct attachment, got %+v", sub.Attachment)
	}
	if sub.Attachment.URL != "https://files.example.com/release.pdf" {
		t.Errorf("unexpected attachment url: %q", sub.Attachment.URL)
	}
	if sub.Origin != domain.OriginAutomated {
		t.Errorf("expected automated origin, got %q", sub.Origin)
	}

	var resp struct {
		Success bool   `json:"success"`
		DocID   string `json:"docId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.DocID != "item-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProcessResolveFromStore(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{result: domain.Result{ItemID: "doc-2"}}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-2","resolveFromStore":true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	sub := p.got
	if sub.Attachment == nil || sub.Attachment.Kind != domain.AttachmentResolve {
		t.Fatalf("expected resolve attachment, got %+v", sub.Attachment)
	}
	if sub.Attachment.DocID != "doc-2" {
		t.Errorf("unexpected attachment doc id: %q", sub.Attachment.DocID)
	}
	if sub.Origin != domain.OriginManual {
		t.Errorf("expected manual origin, got %q", sub.Origin)
	}
}

func TestProcessRejectsMissingSource(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-3"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if p.calls != 0 {
		t.Fatalf("pipeline called despite invalid request")
	}
}

func TestProcessRejectsMissingID(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"fileUrl":"https://files.example.com/x.pdf"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if p.calls != 0 {
		t.Fatalf("pipeline called despite missing id")
	}
}

func TestProcessRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-4","fileUrl":"https://x/y.pdf","origin":"carrier-pigeon"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProcessValidationErrorFromPipeline(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{err: &domain.ValidationError{Field: "externalID", Reason: "missing"}}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-5","fileUrl":"https://x/y.pdf"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation error, got %d", rec.Code)
	}
}

func TestProcessPipelineFailure(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{err: fmt.Errorf("persist news item: %w", &domain.PersistenceError{Op: "create", Err: fmt.Errorf("boom")})}
	router := newTestRouter(p)

	rec := postJSON(t, router, "/api/process", `{"id":"doc-6","fileUrl":"https://x/y.pdf"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestTicketWebhook(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{result: domain.Result{ItemID: "item-8", Message: "Ticket processed"}}
	router := newTestRouter(p)

	body := `{"ticket":{"id":1042,"subject":"Q3 Results","description":"<p>First.</p><p>Second.</p>","priority":"high","tags":["earnings"]}}`
	rec := postJSON(t, router, "/api/webhooks/ticket", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	sub := p.got
	if sub.ExternalID != "1042" {
		t.Errorf("unexpected external id: %q", sub.ExternalID)
	}
	if sub.Title != "Q3 Results" {
		t.Errorf("unexpected title: %q", sub.Title)
	}
	if sub.InlineText != "First.\n\nSecond." {
		t.Errorf("description not cleaned: %q", sub.InlineText)
	}
	if sub.Origin != domain.OriginAPI {
		t.Errorf("expected api origin, got %q", sub.Origin)
	}
	if sub.Priority != "high" {
		t.Errorf("unexpected priority: %q", sub.Priority)
	}
	if sub.Attachment != nil {
		t.Errorf("ticket submissions carry no attachment, got %+v", sub.Attachment)
	}
}

func TestTicketWebhookRejectsMissingFields(t *testing.T) {
	t.Parallel()

	p := &fakeProcessor{}
	router := newTestRouter(p)

	for _, body := range []string{
		`{}`,
		`{"ticket":{"id":1}}`,
		`{"ticket":{"id":1,"subject":"s"}}`,
	} {
		rec := postJSON(t, router, "/api/webhooks/ticket", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
	if p.calls != 0 {
		t.Fatalf("pipeline called despite invalid webhook payloads")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
