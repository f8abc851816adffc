package domain

import "time"

// Review statuses the content store understands. The pipeline only ever
// writes StatusNeedsReview; the rest belong to human review workflows.
const (
	StatusNeedsReview = "needs_review"
	StatusPublished   = "published"
	StatusRejected    = "rejected"
)

// Span is a single text run inside a rich-text block.
type Span struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
	Text string `json:"text"`
}

// Block is one paragraph of portable-text content.
type Block struct {
	Type     string   `json:"_type"`
	Key      string   `json:"_key"`
	Style    string   `json:"style"`
	MarkDefs []string `json:"markDefs"`
	Children []Span   `json:"children"`
}

// Text concatenates the block's span texts.
func (b Block) Text() string {
	var out string
	for _, s := range b.Children {
		out += s.Text
	}
	return out
}

// HistoryEntry is one append-only workflow log record.
type HistoryEntry struct {
	Action    string    `json:"action"`
	By        string    `json:"by"`
	Timestamp time.Time `json:"timestamp"`
}

// Comment is one append-only editorial comment.
type Comment struct {
	Author   string    `json:"author"`
	Message  string    `json:"message"`
	PostedAt time.Time `json:"postedAt"`
}

// NewsItem is the persisted, human-reviewable editorial record.
type NewsItem struct {
	ID          string         `json:"_id,omitempty"`
	Type        string         `json:"_type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     []Block        `json:"aiContent"`
	Status      string         `json:"status"`
	Source      string         `json:"source"`
	Author      string         `json:"author,omitempty"`
	History     []HistoryEntry `json:"history,omitempty"`
	Comments    []Comment      `json:"comments,omitempty"`
}

// NewsItemType is the content store document type for news items.
const NewsItemType = "newsItem"

// Result reports the outcome of one pipeline run.
type Result struct {
	ItemID       string   `json:"itemId"`
	Locator      string   `json:"locator,omitempty"`
	Draft        string   `json:"draft,omitempty"`
	Deduplicated bool     `json:"deduplicated"`
	Degraded     []string `json:"degraded,omitempty"`
	Message      string   `json:"message"`
}

// Event is the completion notification fanned out after persistence.
type Event struct {
	ItemID     string    `json:"itemId"`
	ExternalID string    `json:"externalId"`
	Title      string    `json:"title"`
	Origin     Origin    `json:"origin"`
	EditURL    string    `json:"editUrl"`
	Degraded   []string  `json:"degraded,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
