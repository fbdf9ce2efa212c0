// Package transcriber implements the speech pipeline: download the
// recording, trim the leading seconds with ffmpeg, translate it with the
// speech model, and persist the transcript. The pipeline is linear; each
// stage failure surfaces as a single transcription fault carrying the cause.
package transcriber

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"dispatchgo/backend/internal/config"
	"dispatchgo/backend/internal/models"
)

const downloadTimeout = 60 * time.Second

// Translator is the slice of the speech client the pipeline needs.
// *openai.Client satisfies it.
type Translator interface {
	CreateTranslation(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// TranscriptStore defines the storage methods the pipeline needs.
type TranscriptStore interface {
	SaveTranscript(transcript *models.Transcript) error
}

// Request describes one transcription job.
type Request struct {
	AudioURL     string
	CallSID      string
	RecordingSID string
	SkipSeconds  int
}

// Result is the outcome of one transcription job.
type Result struct {
	CallSID        string  `json:"call_sid,omitempty"`
	RecordingSID   string  `json:"recording_sid,omitempty"`
	Language       string  `json:"original_language"`
	Duration       float64 `json:"duration"`
	SkippedSeconds int     `json:"skipped_seconds"`
	Text           string  `json:"transcription"`
}

// Service runs transcription jobs.
type Service struct {
	Translator Translator
	Storage    TranscriptStore
	HTTPClient *http.Client

	// TrimAudio trims the first skipSeconds of src into dst. Overridable
	// in tests; defaults to the ffmpeg invocation.
	TrimAudio func(ctx context.Context, src, dst string, skipSeconds int) error
}

// NewService creates a transcription service.
func NewService(translator Translator, s TranscriptStore) *Service {
	return &Service{
		Translator: translator,
		Storage:    s,
		HTTPClient: &http.Client{Timeout: downloadTimeout},
		TrimAudio:  ffmpegTrim,
	}
}

// NewServiceFromConfig builds the speech client for the configured endpoint
// and wraps it in a service.
func NewServiceFromConfig(cfg *config.Config, s TranscriptStore) *Service {
	clientConfig := openai.DefaultConfig(cfg.OracleAPIKey)
	clientConfig.BaseURL = cfg.OracleBaseURL
	return NewService(openai.NewClientWithConfig(clientConfig), s)
}

// Transcribe runs the full pipeline for one recording. All temporary files
// are removed on every exit path, including faults.
func (s *Service) Transcribe(ctx context.Context, req Request) (*Result, error) {
	originalPath, err := s.download(ctx, req.AudioURL)
	if originalPath != "" {
		defer removeQuietly(originalPath)
	}
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	trimmedPath := strings.TrimSuffix(originalPath, ".wav") + "_trimmed.wav"
	defer removeQuietly(trimmedPath)

	if err := s.TrimAudio(ctx, originalPath, trimmedPath, req.SkipSeconds); err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	resp, err := s.Translator.CreateTranslation(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: trimmedPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result := &Result{
		CallSID:        req.CallSID,
		RecordingSID:   req.RecordingSID,
		Language:       resp.Language,
		Duration:       resp.Duration,
		SkippedSeconds: req.SkipSeconds,
		Text:           strings.TrimSpace(resp.Text),
	}

	if req.CallSID != "" && result.Text != "" {
		transcript := &models.Transcript{
			CallSID:        req.CallSID,
			RecordingSID:   req.RecordingSID,
			Language:       result.Language,
			Duration:       result.Duration,
			SkippedSeconds: req.SkipSeconds,
			Text:           result.Text,
		}
		if err := s.Storage.SaveTranscript(transcript); err != nil {
			return nil, fmt.Errorf("transcription failed: %w", err)
		}
	}

	return result, nil
}

// download fetches the recording into a temporary .wav file and returns its
// path. The path is returned even on failure so the caller can clean up.
func (s *Service) download(ctx context.Context, audioURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading audio: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "recording-*.wav")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return tmp.Name(), fmt.Errorf("writing audio to disk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return tmp.Name(), fmt.Errorf("closing temp file: %w", err)
	}
	return tmp.Name(), nil
}

// ffmpegTrim drops the first skipSeconds of src without re-encoding.
func ffmpegTrim(ctx context.Context, src, dst string, skipSeconds int) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", src,
		"-ss", strconv.Itoa(skipSeconds),
		"-c", "copy",
		"-y",
		dst,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: Failed to clean up %s: %v", path, err)
	}
}
