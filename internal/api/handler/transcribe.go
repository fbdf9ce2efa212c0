package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatchgo/backend/internal/storage"
	"dispatchgo/backend/internal/transcriber"
)

// TranscribeHandler carries the dependencies of the transcriber endpoints.
type TranscribeHandler struct {
	Svc                *transcriber.Service
	Storage            storage.Storage
	DefaultSkipSeconds int
}

func NewTranscribeHandler(svc *transcriber.Service, s storage.Storage, defaultSkipSeconds int) *TranscribeHandler {
	return &TranscribeHandler{Svc: svc, Storage: s, DefaultSkipSeconds: defaultSkipSeconds}
}

type transcribeRequest struct {
	AudioURL     string `json:"audio_url"`
	CallSID      string `json:"call_sid"`
	RecordingSID string `json:"recording_sid"`
	SkipSeconds  *int   `json:"skip_seconds"`
}

// Transcribe handles POST /transcribe: download, trim, translate, persist.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.AudioURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio_url is required"})
		return
	}

	skipSeconds := h.DefaultSkipSeconds
	if req.SkipSeconds != nil {
		skipSeconds = *req.SkipSeconds
	}

	result, err := h.Svc.Transcribe(c.Request.Context(), transcriber.Request{
		AudioURL:     req.AudioURL,
		CallSID:      req.CallSID,
		RecordingSID: req.RecordingSID,
		SkipSeconds:  skipSeconds,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTranscript handles GET /transcripts/:call_sid.
func (h *TranscribeHandler) GetTranscript(c *gin.Context) {
	callSID := c.Param("call_sid")

	transcript, err := h.Storage.GetTranscriptByCallSID(callSID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if transcript == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no transcript for this call"})
		return
	}

	c.JSON(http.StatusOK, transcript)
}
