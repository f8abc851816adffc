package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/infrastructure/htmltext"
)

// Processor runs one submission through the intake pipeline.
type Processor interface {
	Process(ctx context.Context, sub domain.Submission) (domain.Result, error)
}

// Handler binds intake requests, validates them at the boundary, and
// hands typed submissions to the pipeline.
type Handler struct {
	pipeline Processor
	logger   *slog.Logger
}

// NewHandler wires the pipeline behind the HTTP surface.
func NewHandler(pipeline Processor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{pipeline: pipeline, logger: logger}
}

// processRequest triggers processing of a stored or directly referenced
// document. Either fileUrl or resolveFromStore must be set; the sentinel
// string the old UI sent is gone.
type processRequest struct {
	ID               string `json:"id" binding:"required"`
	FileURL          string `json:"fileUrl"`
	ResolveFromStore bool   `json:"resolveFromStore"`
	Origin           string `json:"origin"`
}

// ticketRequest is the inbound ticket webhook payload.
type ticketRequest struct {
	Ticket struct {
		ID          int64    `json:"id" binding:"required"`
		Subject     string   `json:"subject" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Priority    string   `json:"priority"`
		Status      string   `json:"status"`
		Tags        []string `json:"tags"`
	} `json:"ticket" binding:"required"`
}

// Process handles POST /api/process.
func (h *Handler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	sub, err := req.toSubmission(time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	h.run(c, sub)
}

// TicketWebhook handles POST /api/webhooks/ticket.
func (h *Handler) TicketWebhook(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}

	sub := domain.Submission{
		ExternalID: strconv.FormatInt(req.Ticket.ID, 10),
		Title:      req.Ticket.Subject,
		InlineText: htmltext.Clean(req.Ticket.Description),
		Origin:     domain.OriginAPI,
		Priority:   req.Ticket.Priority,
		ReceivedAt: time.Now(),
	}

	h.run(c, sub)
}

func (h *Handler) run(c *gin.Context, sub domain.Submission) {
	result, err := h.pipeline.Process(c.Request.Context(), sub)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_submission", "message": verr.Error()})
			return
		}
		h.logger.Error("processing failed", "submission", sub.ExternalID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing_error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"docId":   result.ItemID,
		"result":  result,
		"message": result.Message,
	})
}

// Health handles the liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "news-intake"})
}

func (r processRequest) toSubmission(now time.Time) (domain.Submission, error) {
	origin := domain.OriginManual
	switch r.Origin {
	case "":
		if !r.ResolveFromStore {
			origin = domain.OriginAutomated
		}
	case string(domain.OriginAutomated):
		origin = domain.OriginAutomated
	case string(domain.OriginManual):
		origin = domain.OriginManual
	case string(domain.OriginAPI):
		origin = domain.OriginAPI
	default:
		return domain.Submission{}, &domain.ValidationError{Field: "origin", Reason: "unknown origin tag"}
	}

	attachment := &domain.AttachmentSource{}
	switch {
	case r.FileURL != "":
		attachment.Kind = domain.AttachmentDirect
		attachment.URL = r.FileURL
	case r.ResolveFromStore:
		attachment.Kind = domain.AttachmentResolve
		attachment.DocID = r.ID
	default:
		return domain.Submission{}, &domain.ValidationError{Field: "fileUrl", Reason: "either fileUrl or resolveFromStore is required"}
	}

	// id always names an existing store document here, so processing
	// patches it in place and skips the dedup lookup. New items are only
	// created through the ticket webhook; the create-with-attachment path
	// stays an orchestrator-level capability.
	return domain.Submission{
		ExternalID: r.ID,
		Attachment: attachment,
		Origin:     origin,
		StoreDocID: r.ID,
		ReceivedAt: now,
	}, nil
}
