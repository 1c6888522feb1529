package livehub

import "civicgo/backend/internal/models"

// Client is the interface for one subscribed live-feed connection.
// It abstracts the underlying transport so the hub can manage
// connections uniformly.
type Client interface {
	// GetID returns the unique identifier of this connection.
	GetID() string

	// GetSendChannel returns the channel the Manager writes events into.
	// It is a send-only channel.
	GetSendChannel() chan<- models.ComplaintEvent

	// Run starts the client's pumps for outgoing events.
	Run()

	// Close gracefully shuts down the client's connection and channels.
	Close()
}
