package extractor

import (
	"regexp"
	"strings"
)

// Normalization rules for free-text port fragments. Order matters: the ship
// prefix rule anchors on the dash after the ship name, so it must run before
// bare punctuation is stripped.
var (
	noiseWordsRe = regexp.MustCompile(`(?i)Departure|Arrival|View full itinerary`)
	shipPrefixRe = regexp.MustCompile(`(?i)\b(s\s+)?Ship\s+[^-–]+\s*[-–]\s*`)
	barePunctRe  = regexp.MustCompile(`[-–:]`)
	stopsRe      = regexp.MustCompile(`(?i)\d+\s*stops?`)
	loneSRe      = regexp.MustCompile(`^\s*s\s*$`)
)

// Normalize strips boilerplate tokens from a free-text port or ship fragment.
// It is pure: identical input always yields identical output.
func Normalize(fragment string) string {
	text := noiseWordsRe.ReplaceAllString(fragment, "")
	text = shipPrefixRe.ReplaceAllString(text, "")
	text = barePunctRe.ReplaceAllString(text, "")
	text = stopsRe.ReplaceAllString(text, "")
	text = loneSRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
