package publisher

// Publisher represents a service for publishing exported listings
type Publisher interface {
	// Publish appends a message to the stream under key
	Publish(key string, message []byte) error

	// TrimStreams trims the stream to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
