package feedhub

import "dispatchgo/backend/internal/models"

// Client is the interface for any connected feed consumer. It abstracts
// the underlying transport so the hub can manage different client types
// uniformly.
type Client interface {
	// GetID returns the unique identifier of this connection.
	GetID() string

	// GetSendChannel returns the channel the hub pushes new reports into.
	// It is a send-only channel.
	GetSendChannel() chan<- models.Report

	// Run starts the client's pumps handling the outbound stream.
	Run()
	// Close gracefully shuts down the client's connection and channels.
	Close()
}
