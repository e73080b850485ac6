package notifier

import (
	"fmt"
	"strings"

	"cruisescanner/internal/listing"
)

// Format renders a listing as a Discord-markdown alert message. The
// currency symbol is the one the listing's price was extracted in.
func Format(l listing.Listing, currencySymbol, bookURL string) string {
	date := l.DateText
	if l.DurationText != "" {
		date = fmt.Sprintf("%s (%s)", l.DateText, l.DurationText)
	}

	var b strings.Builder
	b.WriteString("**Cruise deal alert**\n")
	fmt.Fprintf(&b, "**Price**: %s%d\n", currencySymbol, l.Price)
	fmt.Fprintf(&b, "**Ship**: %s\n", l.Ship)
	fmt.Fprintf(&b, "**Date**: %s\n", date)
	fmt.Fprintf(&b, "**Departure**: %s\n", l.DeparturePort)
	fmt.Fprintf(&b, "**Arrival**: %s\n", l.ArrivalPort)
	fmt.Fprintf(&b, "[Book now](%s)", bookURL)
	return b.String()
}
