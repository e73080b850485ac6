package cache

import (
	"time"
)

// CacheService represents a generic expiring key-value cache. The scanner
// uses it to hold fetch-cooldown keys between runs, so implementations must
// survive process restarts (an in-memory map is only suitable for tests).
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
