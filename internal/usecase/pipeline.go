package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/metrics"
	"NewsIntake/internal/ports"
)

// SourceArchiver copies a source file into durable storage.
type SourceArchiver interface {
	Archive(ctx context.Context, sourceURL, key string) (locator, contentType string, err error)
}

// TextExtractor converts an archived document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, key, locator, contentType string) (string, error)
}

// Drafter produces the rewritten article body; it never fails outright.
type Drafter interface {
	Generate(ctx context.Context, text string) (draft string, ok bool)
}

// Notifier fans a completion event out to the configured channels.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event)
}

// PipelineDeps wires all driven adapters into the intake pipeline.
type PipelineDeps struct {
	Store     ports.ContentStore
	Guard     *Guard
	Archiver  SourceArchiver
	Extractor TextExtractor
	Drafter   Drafter
	Notifier  Notifier
	BaseURL   string
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline is the intake orchestrator: dedup, archive, extract, draft,
// format, persist, notify. Archive and extraction failures degrade in
// place; only malformed submissions and persistence failures are fatal.
type Pipeline struct {
	store     ports.ContentStore
	guard     *Guard
	archiver  SourceArchiver
	extractor TextExtractor
	drafter   Drafter
	notifier  Notifier
	baseURL   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	guard := deps.Guard
	if guard == nil && deps.Store != nil {
		guard = NewGuard(deps.Store, logger.With("component", "dedup"))
	}
	return &Pipeline{
		store:     deps.Store,
		guard:     guard,
		archiver:  deps.Archiver,
		extractor: deps.Extractor,
		drafter:   deps.Drafter,
		notifier:  deps.Notifier,
		baseURL:   deps.BaseURL,
		logger:    logger,
		now:       now,
	}
}

// Process runs one submission through the full pipeline. The returned
// error is nil for every outcome except a malformed submission or a
// failed persistence write.
func (p *Pipeline) Process(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	started := p.now()

	if err := sub.Validate(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(sub.Origin), "rejected").Inc()
		return domain.Result{}, err
	}

	log := p.logger.With("submission", sub.ExternalID, "origin", string(sub.Origin))
	dedupKey := sub.DedupKey()

	if sub.StoreDocID == "" && p.guard != nil {
		if existing := p.guard.Check(ctx, dedupKey); existing != "" {
			log.Info("duplicate submission, skipping", "item", existing)
			metrics.SubmissionsTotal.WithLabelValues(string(sub.Origin), "deduplicated").Inc()
			return domain.Result{
				ItemID:       existing,
				Deduplicated: true,
				Message:      "Already processed",
			}, nil
		}
	}

	var degraded []string
	text := sub.InlineText
	locator := ""

	sourceURL, failed := p.resolveSource(ctx, sub, log, &degraded)
	if failed {
		text = fallbackText(sub, "[Archive Failed] Could not fetch source document.")
	} else if sourceURL != "" {
		key := BuildKey(sub.Origin, sub.ExternalID, sourceURL, p.now())

		archived, contentType, err := p.archiver.Archive(ctx, sourceURL, key)
		if err != nil {
			log.Error("archive failed, continuing with fallback", "stage", "archive", "error", err)
			metrics.StageFailures.WithLabelValues("archive", "false").Inc()
			degraded = append(degraded, "archive")
			text = fallbackText(sub, "[Archive Failed] Could not fetch source document.")
		} else {
			locator = archived

			extracted, err := p.extractor.Extract(ctx, key, locator, contentType)
			if err != nil {
				log.Error("extraction failed, continuing with fallback", "stage", "extract", "error", err)
				metrics.StageFailures.WithLabelValues("extract", "false").Inc()
				degraded = append(degraded, "extract")
				text = fallbackText(sub, fmt.Sprintf("[OCR Failed] Could not read document. Error: %v", err))
			} else {
				text = extracted
			}
		}
	}

	draft, ok := p.drafter.Generate(ctx, text)
	if !ok {
		metrics.StageFailures.WithLabelValues("draft", "false").Inc()
		degraded = append(degraded, "draft")
	}

	blocks := FormatBlocks(draft)

	itemID, err := p.persist(ctx, sub, dedupKey, locator, blocks)
	if err != nil {
		log.Error("persistence failed", "stage", "persist", "error", err)
		metrics.StageFailures.WithLabelValues("persist", "true").Inc()
		metrics.SubmissionsTotal.WithLabelValues(string(sub.Origin), "failed").Inc()
		return domain.Result{}, err
	}

	log.Info("submission processed", "item", itemID, "degraded", strings.Join(degraded, ","))

	if p.notifier != nil {
		p.notifier.Notify(ctx, domain.Event{
			ItemID:     itemID,
			ExternalID: sub.ExternalID,
			Title:      sub.Title,
			Origin:     sub.Origin,
			EditURL:    p.editURL(itemID),
			Degraded:   degraded,
			OccurredAt: p.now(),
		})
	}

	metrics.SubmissionsTotal.WithLabelValues(string(sub.Origin), "done").Inc()
	metrics.PipelineDuration.WithLabelValues(string(sub.Origin)).Observe(p.now().Sub(started).Seconds())

	return domain.Result{
		ItemID:   itemID,
		Locator:  locator,
		Draft:    draft,
		Degraded: degraded,
		Message:  "processed",
	}, nil
}

// resolveSource returns the fetchable attachment URL, if any. failed is
// true when a store lookup was attempted and errored; the caller degrades
// to fallback text instead of failing the run.
func (p *Pipeline) resolveSource(ctx context.Context, sub domain.Submission, log *slog.Logger, degraded *[]string) (sourceURL string, failed bool) {
	if sub.Attachment == nil || p.archiver == nil {
		return "", false
	}

	switch sub.Attachment.Kind {
	case domain.AttachmentDirect:
		return sub.Attachment.URL, false
	case domain.AttachmentResolve:
		url, err := p.store.ResolveAttachmentURL(ctx, sub.Attachment.DocID)
		if err != nil {
			log.Error("attachment lookup failed, continuing with fallback", "stage", "resolve", "error", err)
			metrics.StageFailures.WithLabelValues("resolve", "false").Inc()
			*degraded = append(*degraded, "resolve")
			return "", true
		}
		return url, false
	}
	return "", false
}

func (p *Pipeline) persist(ctx context.Context, sub domain.Submission, dedupKey, locator string, blocks []domain.Block) (string, error) {
	if sub.StoreDocID != "" {
		fields := map[string]any{
			"aiContent": blocks,
			"status":    domain.StatusNeedsReview,
		}
		if locator != "" {
			fields["description"] = "Archived to GCS: " + locator
		}
		if err := p.store.Patch(ctx, sub.StoreDocID, fields); err != nil {
			return "", &domain.PersistenceError{Op: "patch", Err: err}
		}
		return sub.StoreDocID, nil
	}

	description := dedupKey
	if locator != "" {
		description += ". Archived to GCS: " + locator
	}

	item := domain.NewsItem{
		Type:        domain.NewsItemType,
		Title:       itemTitle(sub),
		Description: description,
		Content:     blocks,
		Status:      domain.StatusNeedsReview,
		Source:      sub.Origin.SourceTag(),
		Author:      sub.Origin.Label(),
		History: []domain.HistoryEntry{
			{Action: "imported", By: actorFor(sub.Origin), Timestamp: p.now()},
		},
		Comments: []domain.Comment{
			{Author: "System", Message: importComment(sub, dedupKey), PostedAt: p.now()},
		},
	}

	id, err := p.store.Create(ctx, item)
	if err != nil {
		return "", &domain.PersistenceError{Op: "create", Err: err}
	}
	return id, nil
}

func (p *Pipeline) editURL(itemID string) string {
	base := strings.TrimRight(p.baseURL, "/")
	return base + "/studio/structure/newsItem;" + itemID
}

func fallbackText(sub domain.Submission, marker string) string {
	if strings.TrimSpace(sub.InlineText) != "" {
		return sub.InlineText
	}
	return marker
}

func itemTitle(sub domain.Submission) string {
	if sub.Title != "" {
		return sub.Title
	}
	return "Press Release " + sub.ExternalID
}

func actorFor(origin domain.Origin) string {
	switch origin {
	case domain.OriginAPI:
		return "Ticket Webhook"
	case domain.OriginAutomated:
		return "Zapier Automation"
	default:
		return "Studio Editor"
	}
}

func importComment(sub domain.Submission, dedupKey string) string {
	msg := dedupKey
	if sub.Priority != "" {
		msg += ". Original Priority: " + sub.Priority
	}
	return msg
}
