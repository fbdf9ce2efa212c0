package report_test

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"dispatchgo/backend/internal/classifier"
	"dispatchgo/backend/internal/models"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (classifier.Classification, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(classifier.Classification), args.Error(1)
}

// fakeStorage is an in-memory stand-in for the Redis-backed store. It keeps
// the same ordering contract: severity-descending, insertion order for ties.
type fakeStorage struct {
	mu        sync.Mutex
	reports   map[string]*models.Report
	index     []indexEntry
	published []models.Report
	saveErr   error
}

type indexEntry struct {
	id       string
	severity int
	seq      int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{reports: make(map[string]*models.Report)}
}

func (f *fakeStorage) SaveReport(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *report
	f.reports[report.ID] = &copied
	f.addEntry(report.ID, report.Severity)
	return nil
}

// addIndexEntry plants an index entry with no backing record, simulating
// a submission that crashed between the two writes.
func (f *fakeStorage) addIndexEntry(id string, severity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addEntry(id, severity)
}

func (f *fakeStorage) addEntry(id string, severity int) {
	f.index = append(f.index, indexEntry{id: id, severity: severity, seq: len(f.index)})
	sort.SliceStable(f.index, func(i, j int) bool {
		return f.index[i].severity > f.index[j].severity
	})
}

func (f *fakeStorage) GetReport(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStorage) ReportIDsBySeverity(ctx context.Context) ([]string, error) {
	return f.ReportIDsBySeverityRange(ctx, 0, -1)
}

func (f *fakeStorage) ReportIDsBySeverityRange(ctx context.Context, start, stop int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if start < 0 || start >= int64(len(f.index)) {
		return []string{}, nil
	}
	if stop < 0 || stop >= int64(len(f.index)) {
		stop = int64(len(f.index)) - 1
	}
	ids := make([]string, 0, stop-start+1)
	for _, entry := range f.index[start : stop+1] {
		ids = append(ids, entry.id)
	}
	return ids, nil
}

func (f *fakeStorage) PublishReport(ctx context.Context, report models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, report)
	return nil
}

func (f *fakeStorage) SubscribeReports(ctx context.Context) *redis.PubSub {
	return nil
}

func (f *fakeStorage) SaveSubscriber(subscriber *models.Subscriber) error { return nil }

func (f *fakeStorage) DeleteSubscriber(chatID int64) error { return nil }

func (f *fakeStorage) GetSubscribers() ([]models.Subscriber, error) {
	return []models.Subscriber{}, nil
}

func (f *fakeStorage) SaveTranscript(transcript *models.Transcript) error { return nil }

func (f *fakeStorage) GetTranscriptByCallSID(callSID string) (*models.Transcript, error) {
	return nil, nil
}
