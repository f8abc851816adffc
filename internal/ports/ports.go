package ports

import (
	"context"
	"io"

	"NewsIntake/internal/domain"
)

// ContentStore persists news items and answers idempotency queries.
type ContentStore interface {
	// FindByDescription returns the id of an item whose description
	// carries the given idempotency key, exactly or followed by the
	// archive-locator sentence, or "" when none exists.
	FindByDescription(ctx context.Context, description string) (string, error)
	Create(ctx context.Context, item domain.NewsItem) (string, error)
	Patch(ctx context.Context, id string, fields map[string]any) error
	// ResolveAttachmentURL returns the fetchable URL of the file attached
	// to an existing store document.
	ResolveAttachmentURL(ctx context.Context, docID string) (string, error)
}

// ObjectStorage writes source files into durable long-term storage.
type ObjectStorage interface {
	// WriteStream copies body into the bucket under key without buffering
	// the whole payload, and returns a publicly resolvable locator.
	WriteStream(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// URI returns the storage-scheme reference for key (e.g. gs://bucket/key).
	URI(key string) string
}

// DocumentProcessor is the remote document-understanding backend.
type DocumentProcessor interface {
	Process(ctx context.Context, storageURI, mimeType string) (string, error)
}

// OfficeConverter turns word-processing documents into plain text locally.
type OfficeConverter interface {
	Convert(data []byte) (string, error)
}

// TextGenerator is the generative rewrite backend.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NotifyChannel delivers a completion event over one best-effort channel.
type NotifyChannel interface {
	Name() string
	Send(ctx context.Context, event domain.Event) error
}
