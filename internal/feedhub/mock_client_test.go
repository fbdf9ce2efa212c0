package feedhub_test

import (
	"dispatchgo/backend/internal/models"
)

type MockClient struct {
	id          string
	RecvChannel chan models.Report
	closed      bool
}

func newMockClient(id string) *MockClient {
	return &MockClient{
		id:          id,
		RecvChannel: make(chan models.Report, 10),
	}
}

func (c *MockClient) GetID() string {
	return c.id
}

func (c *MockClient) GetSendChannel() chan<- models.Report {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
