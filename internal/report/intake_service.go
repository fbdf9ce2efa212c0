// Package report holds the core write and read paths for incident reports:
// the intake service that classifies and persists a submission, and the
// query service that enumerates stored reports in severity order.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"dispatchgo/backend/internal/classifier"
	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"
)

// ErrEmptyText is returned when a submission carries no text.
var ErrEmptyText = errors.New("no text provided")

// Classifier is the slice of the classifier gateway the intake needs.
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Classification, error)
}

// IntakeService orchestrates the write path: classify, build, persist, publish.
type IntakeService struct {
	Classifier Classifier
	Storage    storage.Storage
}

// NewIntakeService creates a new intake service.
func NewIntakeService(c Classifier, s storage.Storage) *IntakeService {
	return &IntakeService{Classifier: c, Storage: s}
}

// Submit classifies the text and stores the resulting report. An empty
// location defaults to "Unknown". Two submissions with identical text
// produce two distinct reports; incident reports are not deduplicated.
func (s *IntakeService) Submit(ctx context.Context, text, location string) (*models.Report, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if location == "" {
		location = models.DefaultLocation
	}

	result, err := s.Classifier.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classifying report: %w", err)
	}

	report := &models.Report{
		ID:        uuid.New().String(),
		Text:      text,
		Summary:   result.Summary,
		Severity:  result.Severity,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Storage.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}

	// The live feed is best effort; a publish failure must not fail the intake.
	if err := s.Storage.PublishReport(ctx, *report); err != nil {
		log.Printf("ERROR: Failed to publish report %s to the feed: %v", report.ID, err)
	}

	return report, nil
}
