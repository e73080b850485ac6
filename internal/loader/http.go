package loader

import (
	"context"
	"fmt"
	"time"

	"cruisescanner/helpers"
	"cruisescanner/logger"
	"cruisescanner/pkg/errors"
	"cruisescanner/services/cache"
)

// HTTPLoader fetches the target page over plain HTTP. It misses listings
// that only render client-side, but is useful where Chrome is unavailable.
// An optional cache holds a cooldown key after a rate-limited response so
// back-to-back runs do not hammer a throttling origin.
type HTTPLoader struct {
	url       string
	cacheSvc  cache.CacheService
	cacheKey  string
	blockTime time.Duration
}

// NewHTTPLoader creates a plain-HTTP page loader
func NewHTTPLoader(url string, cacheSvc cache.CacheService, blockTime time.Duration) *HTTPLoader {
	return &HTTPLoader{
		url:       url,
		cacheSvc:  cacheSvc,
		cacheKey:  "cruisescanner_rate_limited",
		blockTime: blockTime,
	}
}

// Name returns the loader name
func (l *HTTPLoader) Name() string {
	return "http"
}

// Cards fetches and splits the page. A cooldown key set by a previous
// rate-limited fetch short-circuits the run with a rate-limit error.
func (l *HTTPLoader) Cards(ctx context.Context) ([]string, error) {
	log := logger.ForLoader(l.Name())

	if l.cacheSvc != nil {
		if _, err := l.cacheSvc.Get(l.cacheKey); err == nil {
			return nil, errors.NewRateLimit(l.Name(), l.blockTime)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(l.url)
	if err != nil {
		if l.cacheSvc != nil && helpers.IsRateLimited(err) {
			value := []byte(fmt.Sprintf("%d", int(l.blockTime.Seconds())))
			if setErr := l.cacheSvc.Set(l.cacheKey, value, l.blockTime); setErr != nil {
				log.Warn().Err(setErr).Msg("Failed to set rate-limit cooldown")
			}
		}
		return nil, errors.NewNetwork(l.Name(), "failed to fetch page", err)
	}

	cards, err := CardsFromHTML(body)
	if err != nil {
		return nil, err
	}

	log.Info().Int("cards", len(cards)).Msg("Collected listing cards")
	return cards, nil
}
