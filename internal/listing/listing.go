package listing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Sentinel values substituted when an optional field cannot be extracted.
// They feed the dedup identity, so they must never change between runs.
const (
	DefaultShip = "MSC Cruise"
	UnknownDate = "unknown date"
	UnknownPort = "unknown"
)

// Listing represents one extracted cruise listing
type Listing struct {
	Price         int    `json:"price"`
	Ship          string `json:"ship"`
	DateText      string `json:"date_text"`
	DurationText  string `json:"duration_text,omitempty"`
	DeparturePort string `json:"departure_port"`
	ArrivalPort   string `json:"arrival_port"`
}

// Identity returns the dedup key for a (price, date, ship) triple: the
// md5 hex digest of "<price>-<date>-<ship>". The format is shared with the
// persisted history file, so it must stay stable across runs and releases.
func Identity(price int, dateText, ship string) string {
	raw := fmt.Sprintf("%d-%s-%s", price, dateText, ship)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Identity returns the listing's dedup key.
func (l Listing) Identity() string {
	return Identity(l.Price, l.DateText, l.Ship)
}

// PriceBand is an inclusive price filter in whole currency units
type PriceBand struct {
	Min int
	Max int
}

// Contains reports whether a price falls inside the band. Both bounds are
// inclusive: a band of (50, 500) admits 50 and 500.
func (b PriceBand) Contains(price int) bool {
	return price >= b.Min && price <= b.Max
}
