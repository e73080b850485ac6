package publisher

// Publisher mirrors newly notified listings onto a message stream for
// downstream consumers. It is optional; a nil Publisher is skipped by the
// pipeline, and publish failures never block notification.
type Publisher interface {
	// Publish publishes a message under a routing key
	Publish(key string, message []byte) error

	// TrimStreams trims backing streams to their configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
