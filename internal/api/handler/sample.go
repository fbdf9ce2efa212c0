package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatchgo/backend/internal/models"
)

var sampleMessages = []incomingMessage{
	{Text: "There is a massive fire in downtown Bengaluru.", Location: "Bengaluru"},
	{Text: "A minor traffic accident happened near MG Road.", Location: "Bengaluru"},
	{Text: "Gas leak reported in Patna Railway Station, people are panicking.", Location: "Patna"},
	{Text: "Power outage in Sector 22, Chandigarh.", Location: "Chandigarh"},
	{Text: "Flooding reported near river banks in Kerala.", Location: "Kerala"},
}

// SeedSampleMessages handles GET /test_sample_messages: pushes a fixed set
// of incidents through the normal intake path. Useful for smoke-testing a
// fresh deployment end to end.
func (h *Handler) SeedSampleMessages(c *gin.Context) {
	results := make([]models.ReportProjection, 0, len(sampleMessages))
	for _, msg := range sampleMessages {
		r, err := h.Intake.Submit(c.Request.Context(), msg.Text, msg.Location)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		results = append(results, r.Projection())
	}
	c.JSON(http.StatusOK, results)
}
