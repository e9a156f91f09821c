// Package handlers provides the gin HTTP handlers for the admin review API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/moderation/internal/logger"
	"github.com/jonesrussell/moderation/internal/metrics"
	"github.com/jonesrussell/moderation/internal/middleware"
	"github.com/jonesrussell/moderation/internal/models"
	"github.com/jonesrussell/moderation/internal/review"
)

// QueuePath is the canonical path of the queue overview, used as the
// redirect target for rejected selections.
const QueuePath = "/api/v1/novices"

// ReviewService is the workflow surface the handler depends on.
type ReviewService interface {
	QueuePage(ctx context.Context) (*review.QueuePage, error)
	Lookup(ctx context.Context, username string) (*review.Detail, error)
	Decide(ctx context.Context, actor review.Actor, username, operation string) (*review.Decision, error)
}

// decisionRequest is the POST body of the decision endpoint. SubmitType
// controls post-decision navigation: "redirect_back" returns the admin to
// the queue, any other value is treated as the username to review next.
type decisionRequest struct {
	Operation  string `json:"operation" binding:"required"`
	SubmitType string `json:"submit_type"`
}

// NoviceHandler handles the novice review endpoints.
type NoviceHandler struct {
	svc     ReviewService
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewNoviceHandler creates a NoviceHandler.
func NewNoviceHandler(svc ReviewService, m *metrics.Metrics, log logger.Logger) *NoviceHandler {
	return &NoviceHandler{
		svc:     svc,
		metrics: m,
		logger:  log,
	}
}

// List returns the reviewable front of the queue plus the total eligible
// count.
func (h *NoviceHandler) List(c *gin.Context) {
	page, err := h.svc.QueuePage(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build novice queue", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build novice queue"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Lookup returns a single applicant's review view: first published entries
// and the next applicant's username.
func (h *NoviceHandler) Lookup(c *gin.Context) {
	username := c.Param("username")

	detail, err := h.svc.Lookup(c.Request.Context(), username)
	if err != nil {
		h.selectionError(c, username, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Decide executes an accept or decline decision and returns the
// post-decision redirect target.
func (h *NoviceHandler) Decide(c *gin.Context) {
	username := c.Param("username")

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid request body",
			"redirect": detailPath(username),
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
		return
	}

	decision, err := h.svc.Decide(c.Request.Context(), actor, username, req.Operation)
	if err != nil {
		if errors.Is(err, review.ErrInvalidOperation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    err.Error(),
				"redirect": detailPath(username),
			})
			return
		}
		h.selectionError(c, username, err)
		return
	}

	h.metrics.ReviewsTotal.WithLabelValues(decisionLabel(decision.Operation)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"message":  decision.Summary,
		"redirect": redirectTarget(req.SubmitType),
	})
}

// selectionError maps workflow errors to the flash-and-redirect responses
// of the admin UI: the error text plus where the client should go.
func (h *NoviceHandler) selectionError(c *gin.Context, username string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "applicant not found",
			"redirect": QueuePath,
		})
	case errors.Is(err, review.ErrNotInQueue), errors.Is(err, review.ErrNotAtFront):
		h.metrics.RejectedSelections.Inc()
		c.JSON(http.StatusConflict, gin.H{
			"error":    err.Error(),
			"redirect": QueuePath,
		})
	default:
		h.logger.Error("Novice review failed",
			logger.String("username", username),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "novice review failed"})
	}
}

// redirectTarget resolves the post-decision navigation: back to the queue,
// or straight to the next applicant for continuous sequential review.
func redirectTarget(submitType string) string {
	if submitType == "" || submitType == "redirect_back" {
		return QueuePath
	}
	return detailPath(submitType)
}

func detailPath(username string) string {
	return QueuePath + "/" + username
}

// decisionLabel maps an operation token to its metrics label.
func decisionLabel(operation string) string {
	if operation == review.OpAccept {
		return "accepted"
	}
	return "declined"
}

// actorFromContext builds the acting admin from the validated JWT claims.
func actorFromContext(c *gin.Context) (review.Actor, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return review.Actor{}, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return review.Actor{}, false
	}

	return review.Actor{ID: id, Username: claims.Username}, true
}
