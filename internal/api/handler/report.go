package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dispatchgo/backend/internal/report"
)

type incomingMessage struct {
	Text     string `json:"text"`
	Location string `json:"location"`
}

// ReceiveMessage handles POST /incoming_message: classify the text, store
// the report, and return its public projection.
func (h *Handler) ReceiveMessage(c *gin.Context) {
	var msg incomingMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	r, err := h.Intake.Submit(c.Request.Context(), msg.Text, msg.Location)
	if err != nil {
		if errors.Is(err, report.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, r.Projection())
}

// GetSortedMessages handles GET /get_sorted_messages: every stored report,
// severity-descending.
func (h *Handler) GetSortedMessages(c *gin.Context) {
	reports, err := h.Query.ListBySeverity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetMessagesByLocation handles GET /get_messages_by_location?loc=...
func (h *Handler) GetMessagesByLocation(c *gin.Context) {
	loc := c.Query("loc")
	if loc == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location parameter missing"})
		return
	}

	reports, err := h.Query.ListByLocation(c.Request.Context(), loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetTopCritical handles GET /get_top_critical?n=... (n defaults to 5).
func (h *Handler) GetTopCritical(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(report.DefaultTopN)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid n parameter"})
		return
	}

	reports, err := h.Query.TopCritical(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}
