package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"cruisescanner/internal/listing"
)

// fieldRule is one best-effort extraction heuristic: a pattern, a setter for
// the captured span, and the sentinel applied when the pattern misses.
// Rules are independent of each other; a miss never fails the record.
type fieldRule struct {
	pattern  *regexp.Regexp
	apply    func(l *listing.Listing, captured string)
	fallback string
}

// Extractor infers listing fields from raw card text using ordered
// heuristic rules. Price is the only mandatory field.
type Extractor struct {
	currency string
	priceRe  *regexp.Regexp
	rules    []fieldRule
}

// New creates an extractor for the given currency symbol (e.g. "£").
func New(currencySymbol string) *Extractor {
	return &Extractor{
		currency: currencySymbol,
		priceRe:  regexp.MustCompile(regexp.QuoteMeta(currencySymbol) + `\s*(\d{1,5})`),
		rules: []fieldRule{
			{
				pattern: regexp.MustCompile(`(?i)Ship\s+(.*?)(?:\s*Departure|\s*•)`),
				apply: func(l *listing.Listing, captured string) {
					l.Ship = strings.TrimSpace(captured)
				},
				fallback: listing.DefaultShip,
			},
			{
				pattern: regexp.MustCompile(`(?i)Date\s+(.*?202\d)`),
				apply: func(l *listing.Listing, captured string) {
					l.DateText = strings.TrimSpace(captured)
				},
				fallback: listing.UnknownDate,
			},
			{
				pattern: regexp.MustCompile(`(?i)Duration\s*(\d+\s*nights?)`),
				apply: func(l *listing.Listing, captured string) {
					l.DurationText = strings.TrimSpace(captured)
				},
				fallback: "",
			},
			{
				pattern: regexp.MustCompile(`(?i)Departure(.*?)(?:Arrival|View)`),
				apply: func(l *listing.Listing, captured string) {
					l.DeparturePort = Normalize(captured)
				},
				fallback: listing.UnknownPort,
			},
			{
				pattern: regexp.MustCompile(`(?i)Arrival(.*?)(?:£|From|Price)`),
				apply: func(l *listing.Listing, captured string) {
					l.ArrivalPort = Normalize(captured)
				},
				fallback: listing.UnknownPort,
			},
		},
	}
}

// Currency returns the currency symbol prices were extracted in
func (e *Extractor) Currency() string {
	return e.currency
}

// Extract builds a listing record from one raw card text. It returns false
// when no currency-prefixed price can be found; every other field degrades
// to its sentinel instead of failing the record.
func (e *Extractor) Extract(raw string) (listing.Listing, bool) {
	price, ok := e.lowestPrice(raw)
	if !ok {
		return listing.Listing{}, false
	}

	l := listing.Listing{Price: price}
	for _, rule := range e.rules {
		match := rule.pattern.FindStringSubmatch(raw)
		if len(match) > 1 && strings.TrimSpace(match[1]) != "" {
			rule.apply(&l, match[1])
		} else {
			rule.apply(&l, rule.fallback)
		}
	}
	return l, true
}

// lowestPrice scans for every currency-prefixed integer and returns the
// minimum; cards advertising several cabin tiers keep the cheapest one.
func (e *Extractor) lowestPrice(raw string) (int, bool) {
	matches := e.priceRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return 0, false
	}

	best := -1
	for _, m := range matches {
		p, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if best < 0 || p < best {
			best = p
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
