package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dispatchgo/backend/internal/models"
)

const (
	// severityIndexKey is the sorted set ranking report ids by severity.
	severityIndexKey = "reports_by_severity"
	// reportsChannel carries every newly stored report to live consumers.
	reportsChannel = "reports:new"
)

type Storage interface {
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ReportIDsBySeverity(ctx context.Context) ([]string, error)
	ReportIDsBySeverityRange(ctx context.Context, start, stop int64) ([]string, error)

	PublishReport(ctx context.Context, report models.Report) error
	SubscribeReports(ctx context.Context) *redis.PubSub

	SaveSubscriber(subscriber *models.Subscriber) error
	DeleteSubscriber(chatID int64) error
	GetSubscribers() ([]models.Subscriber, error)

	SaveTranscript(transcript *models.Transcript) error
	GetTranscriptByCallSID(callSID string) (*models.Transcript, error)
}

// Service backs the Storage interface with Redis for the report store and
// its severity index, and PostgreSQL for durable records.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. Either dependency may be nil when the
// binary does not need it (the transcriber runs without Redis).
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

func reportKey(id string) string {
	return "report:" + id
}

// SaveReport writes the report record and its severity-index entry as one
// MULTI/EXEC pipeline, so a reader never observes one without the other.
func (s *Service) SaveReport(ctx context.Context, report *models.Report) error {
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, reportKey(report.ID), reportToFields(report))
		pipe.ZAdd(ctx, severityIndexKey, redis.Z{
			Score:  float64(report.Severity),
			Member: report.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport loads a report by id. A missing record is not an error: it
// returns (nil, nil) so list-building callers can skip stale index entries.
func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	fields, err := s.Redis.HGetAll(ctx, reportKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return reportFromFields(fields)
}

// ReportIDsBySeverity returns every stored report id, severity-descending.
func (s *Service) ReportIDsBySeverity(ctx context.Context) ([]string, error) {
	return s.ReportIDsBySeverityRange(ctx, 0, -1)
}

// ReportIDsBySeverityRange returns report ids by rank position in the
// severity-descending order, inclusive on both ends (Redis range semantics).
func (s *Service) ReportIDsBySeverityRange(ctx context.Context, start, stop int64) ([]string, error) {
	ids, err := s.Redis.ZRevRange(ctx, severityIndexKey, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading severity index: %w", err)
	}
	return ids, nil
}

// PublishReport pushes a newly stored report to the realtime feed channel.
func (s *Service) PublishReport(ctx context.Context, report models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, reportsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publishing report %s: %w", report.ID, err)
	}
	return nil
}

// SubscribeReports subscribes to the realtime feed channel.
func (s *Service) SubscribeReports(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, reportsChannel)
}

func reportToFields(report *models.Report) map[string]interface{} {
	return map[string]interface{}{
		"id":        report.ID,
		"text":      report.Text,
		"summary":   report.Summary,
		"severity":  report.Severity,
		"location":  report.Location,
		"timestamp": report.CreatedAt.Format(time.RFC3339Nano),
	}
}

func reportFromFields(fields map[string]string) (*models.Report, error) {
	severity, err := strconv.Atoi(fields["severity"])
	if err != nil {
		return nil, fmt.Errorf("corrupt severity field %q: %w", fields["severity"], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("corrupt timestamp field %q: %w", fields["timestamp"], err)
	}
	return &models.Report{
		ID:        fields["id"],
		Text:      fields["text"],
		Summary:   fields["summary"],
		Severity:  severity,
		Location:  fields["location"],
		CreatedAt: createdAt,
	}, nil
}
