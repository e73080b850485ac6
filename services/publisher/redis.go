package publisher

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using a Redis stream
type RedisPublisher struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Publish appends a base64-encoded message to the stream
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
}

// TrimStreams trims the stream to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	if p.maxLength <= 0 {
		return nil
	}
	return p.client.XTrimMaxLen(p.ctx, p.stream, int64(p.maxLength)).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
