package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsIntake/internal/domain"
)

type fakeConverter struct {
	text  string
	err   error
	calls int
}

func (f *fakeConverter) Convert(_ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeProcessor struct {
	text     string
	err      error
	calls    int
	lastURI  string
	lastMime string
}

func (f *fakeProcessor) Process(_ context.Context, uri, mimeType string) (string, error) {
	f.calls++
	f.lastURI = uri
	f.lastMime = mimeType
	return f.text, f.err
}

func TestRouterWordProcessingGoesLocal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("zip-bytes"))
	}))
	defer server.Close()

	converter := &fakeConverter{text: "converted text"}
	processor := &fakeProcessor{}
	r := NewRouter(converter, processor, &fakeObjectStorage{}, server.Client(), nil)

	cases := []struct {
		key         string
		contentType string
	}{
		{"uploads/a-1.docx", "application/octet-stream"},
		{"uploads/a-1.odt", ""},
		{"uploads/a-1.pdf", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"uploads/a-1.bin", "application/vnd.oasis.opendocument.text; charset=utf-8"},
	}

	for _, tc := range cases {
		text, err := r.Extract(context.Background(), tc.key, server.URL, tc.contentType)
		if err != nil {
			t.Fatalf("%s: Extract error: %v", tc.key, err)
		}
		if text != "converted text" {
			t.Fatalf("%s: unexpected text %q", tc.key, text)
		}
	}

	if processor.calls != 0 {
		t.Fatalf("word-processing documents must never reach the remote backend")
	}
	if converter.calls != len(cases) {
		t.Fatalf("expected %d local conversions, got %d", len(cases), converter.calls)
	}
}

func TestRouterPDFAndUnknownGoRemote(t *testing.T) {
	t.Parallel()

	converter := &fakeConverter{}
	processor := &fakeProcessor{text: "remote text"}
	r := NewRouter(converter, processor, &fakeObjectStorage{}, nil, nil)

	cases := []struct {
		key         string
		contentType string
		wantMime    string
	}{
		{"automated/42-1.pdf", "application/pdf", "application/pdf"},
		{"automated/42-1.pdf", "", "application/pdf"},
		{"automated/42-1.bin", "application/octet-stream", "application/pdf"},
		{"automated/42-1.png", "image/png", "image/png"},
	}

	for _, tc := range cases {
		text, err := r.Extract(context.Background(), tc.key, "https://unused", tc.contentType)
		if err != nil {
			t.Fatalf("%s: Extract error: %v", tc.key, err)
		}
		if text != "remote text" {
			t.Fatalf("%s: unexpected text %q", tc.key, text)
		}
		if processor.lastMime != tc.wantMime {
			t.Fatalf("%s: sent mime %q, want %q", tc.key, processor.lastMime, tc.wantMime)
		}
		if processor.lastURI != "gs://bucket/"+tc.key {
			t.Fatalf("%s: sent uri %q", tc.key, processor.lastURI)
		}
	}

	if converter.calls != 0 {
		t.Fatalf("PDF/unknown documents must never reach the local converter")
	}
}

func TestRouterWrapsBackendFailure(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{err: errors.New("deadline exceeded")}
	r := NewRouter(&fakeConverter{}, processor, &fakeObjectStorage{}, nil, nil)

	_, err := r.Extract(context.Background(), "a.pdf", "", "application/pdf")

	var xerr *domain.ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if xerr.Reason != domain.ExtractReasonBackend {
		t.Fatalf("unexpected reason: %s", xerr.Reason)
	}
}

func TestRouterWrapsLocalFetchFailure(t *testing.T) {
	t.Parallel()

	r := NewRouter(&fakeConverter{}, &fakeProcessor{}, &fakeObjectStorage{}, &http.Client{}, nil)

	_, err := r.Extract(context.Background(), "a.docx", "http://127.0.0.1:1/gone", "")

	var xerr *domain.ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if xerr.Reason != domain.ExtractReasonFetch {
		t.Fatalf("unexpected reason: %s", xerr.Reason)
	}
}

func TestRouterWhitespaceOnlyConversionIsValid(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("zip"))
	}))
	defer server.Close()

	converter := &fakeConverter{text: "   \n"}
	r := NewRouter(converter, &fakeProcessor{}, &fakeObjectStorage{}, server.Client(), nil)

	text, err := r.Extract(context.Background(), "a.docx", server.URL, "")
	if err != nil {
		t.Fatalf("whitespace-only result must not error: %v", err)
	}
	if text != "   \n" {
		t.Fatalf("conversion output altered: %q", text)
	}
}
