package domain

import "time"

// Origin classifies where a submission entered the system.
type Origin string

const (
	OriginAutomated Origin = "automated-integration"
	OriginManual    Origin = "manual-trigger"
	OriginAPI       Origin = "inbound-api"
)

// SourceTag maps the origin to the submission-source tag stored on a news item.
func (o Origin) SourceTag() string {
	switch o {
	case OriginAutomated:
		return "zapier"
	case OriginManual:
		return "manual"
	case OriginAPI:
		return "api"
	}
	return "api"
}

// Folder returns the ingestion namespace used for archive keys.
func (o Origin) Folder() string {
	switch o {
	case OriginManual:
		return "uploads"
	case OriginAutomated:
		return "automated"
	default:
		return "api"
	}
}

// Label is the human-readable origin used in idempotency descriptions.
func (o Origin) Label() string {
	switch o {
	case OriginAutomated:
		return "Zapier"
	case OriginManual:
		return "Manual Upload"
	default:
		return "Ticket"
	}
}

// Valid reports whether the origin belongs to the closed set.
func (o Origin) Valid() bool {
	switch o {
	case OriginAutomated, OriginManual, OriginAPI:
		return true
	}
	return false
}

// AttachmentKind selects how the source file URL is obtained.
type AttachmentKind string

const (
	// AttachmentDirect carries a fetchable URL on the request itself.
	AttachmentDirect AttachmentKind = "direct"
	// AttachmentResolve asks the content store for the file URL of an
	// existing document.
	AttachmentResolve AttachmentKind = "resolve"
)

// AttachmentSource points at the source file of a submission.
type AttachmentSource struct {
	Kind  AttachmentKind
	URL   string // set when Kind == AttachmentDirect
	DocID string // set when Kind == AttachmentResolve
}

// Submission is one unit of inbound work for the intake pipeline.
type Submission struct {
	ExternalID string
	Title      string
	InlineText string
	Attachment *AttachmentSource
	Origin     Origin
	Priority   string
	// StoreDocID is set when the submission targets an existing content
	// store document (manual regenerate); the pipeline patches it instead
	// of creating a new item.
	StoreDocID string
	ReceivedAt time.Time
}

// DedupKey is the deterministic idempotency description for this submission.
func (s Submission) DedupKey() string {
	return "Imported from " + s.Origin.Label() + " " + s.ExternalID
}

// Validate rejects submissions that cannot produce any text input.
func (s Submission) Validate() error {
	if s.ExternalID == "" && s.StoreDocID == "" {
		return &ValidationError{Field: "externalId", Reason: "missing external identifier"}
	}
	if !s.Origin.Valid() {
		return &ValidationError{Field: "origin", Reason: "unknown origin tag"}
	}
	if s.Attachment == nil && s.InlineText == "" {
		return &ValidationError{Field: "inlineText", Reason: "no attachment and no inline text"}
	}
	if s.Attachment != nil {
		switch s.Attachment.Kind {
		case AttachmentDirect:
			if s.Attachment.URL == "" {
				return &ValidationError{Field: "fileUrl", Reason: "direct attachment without URL"}
			}
		case AttachmentResolve:
			if s.Attachment.DocID == "" {
				return &ValidationError{Field: "id", Reason: "resolve attachment without document id"}
			}
		default:
			return &ValidationError{Field: "attachment", Reason: "unknown attachment kind"}
		}
	}
	return nil
}
