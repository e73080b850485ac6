package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"cruisescanner/internal/extractor"
	"cruisescanner/internal/listing"
	"cruisescanner/internal/loader"
	"cruisescanner/logger"
	"cruisescanner/services/history"
	"cruisescanner/services/notifier"
	"cruisescanner/services/publisher"
)

// Stats tallies per-card outcomes of one run
type Stats struct {
	Cards          int
	NoPrice        int
	OutOfBand      int
	Duplicates     int
	Notified       int
	NotifyFailures int
}

// Pipeline drives one run: loader to extractor to filter to dedup to
// notifier, recording each newly notified identity in the history set.
type Pipeline struct {
	loader      loader.Loader
	extractor   *extractor.Extractor
	band        listing.PriceBand
	history     *history.Set
	notifier    notifier.Notifier
	publisher   publisher.Publisher
	notifyDelay time.Duration
	bookURL     string

	stats Stats
}

// New creates a pipeline. The publisher may be nil; everything else is
// required. The history set is mutated in place, the caller decides
// whether to persist it based on the returned count.
func New(
	ld loader.Loader,
	ex *extractor.Extractor,
	band listing.PriceBand,
	hist *history.Set,
	nt notifier.Notifier,
	pub publisher.Publisher,
	notifyDelay time.Duration,
	bookURL string,
) *Pipeline {
	return &Pipeline{
		loader:      ld,
		extractor:   ex,
		band:        band,
		history:     hist,
		notifier:    nt,
		publisher:   pub,
		notifyDelay: notifyDelay,
		bookURL:     bookURL,
	}
}

// Stats returns the tallies of the last run
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Run processes one batch of cards and returns the number of newly
// notified listings. Only a loader failure aborts the run; every card and
// notify level error is absorbed and logged.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	log := logger.ForPipeline()
	p.stats = Stats{}

	cards, err := p.loader.Cards(ctx)
	if err != nil {
		return 0, err
	}
	p.stats.Cards = len(cards)

	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return p.stats.Notified, err
		}
		p.processCard(ctx, card, log)
	}

	if p.publisher != nil {
		if err := p.publisher.TrimStreams(); err != nil {
			log.Warn().Err(err).Msg("Failed to trim publisher streams")
		}
	}

	log.Info().
		Int("cards", p.stats.Cards).
		Int("no_price", p.stats.NoPrice).
		Int("out_of_band", p.stats.OutOfBand).
		Int("duplicates", p.stats.Duplicates).
		Int("notified", p.stats.Notified).
		Int("notify_failures", p.stats.NotifyFailures).
		Msg("Run complete")

	return p.stats.Notified, nil
}

// processCard handles one card text end to end. All outcomes are normal
// control flow: a card with no price or outside the band is skipped, a
// duplicate is the expected steady state.
func (p *Pipeline) processCard(ctx context.Context, card string, log *logger.Logger) {
	l, ok := p.extractor.Extract(card)
	if !ok {
		p.stats.NoPrice++
		return
	}

	if !p.band.Contains(l.Price) {
		p.stats.OutOfBand++
		return
	}

	identity := l.Identity()
	if p.history.Has(identity) {
		p.stats.Duplicates++
		log.Debug().
			Int("price", l.Price).
			Str("date", l.DateText).
			Msg("Skipping already-notified listing")
		return
	}

	log.Info().
		Int("price", l.Price).
		Str("ship", l.Ship).
		Str("date", l.DateText).
		Msg("New listing found")

	msg := notifier.Format(l, p.extractor.Currency(), p.bookURL)
	if err := p.notifier.Notify(ctx, msg); err != nil {
		// Fire and forget: a failed send is logged, not retried, and the
		// identity is still recorded so the next run does not re-alert.
		p.stats.NotifyFailures++
		log.Error().Err(err).Str("notifier", p.notifier.Name()).Msg("Notification failed")
	}

	p.publish(l, log)

	p.history.Add(identity)
	p.stats.Notified++

	if p.notifier.Enabled() && p.notifyDelay > 0 {
		time.Sleep(p.notifyDelay)
	}
}

// publish mirrors the listing onto the optional message stream.
func (p *Pipeline) publish(l listing.Listing, log *logger.Logger) {
	if p.publisher == nil {
		return
	}

	data, err := json.Marshal(l)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode listing for publisher")
		return
	}
	if err := p.publisher.Publish("listing", data); err != nil {
		log.Warn().Err(err).Msg("Failed to publish listing")
	}
}
