package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cruisescanner/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotifySendsPayload(t *testing.T) {
	var received map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscord(server.URL)
	err := n.Notify(context.Background(), "**Price**: £180")
	require.NoError(t, err)

	assert.Equal(t, "**Price**: £180", received["content"])
	assert.Equal(t, "Seascanner Deal Hunter", received["username"])
}

func TestDiscordNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := NewDiscord(server.URL).Notify(context.Background(), "hello")
	assert.Error(t, err)
}

func TestDisabledNotifierIsNoOp(t *testing.T) {
	n := Disabled()

	assert.False(t, n.Enabled())
	assert.NoError(t, n.Notify(context.Background(), "anything"))
}

func TestFormat(t *testing.T) {
	l := listing.Listing{
		Price:         180,
		Ship:          "MSC Bellissima",
		DateText:      "12 March 2025",
		DurationText:  "7 nights",
		DeparturePort: "Yokohama",
		ArrivalPort:   "Kobe",
	}

	msg := Format(l, "£", "https://example.com/cruises")

	assert.Contains(t, msg, "**Price**: £180")
	assert.Contains(t, msg, "**Ship**: MSC Bellissima")
	assert.Contains(t, msg, "**Date**: 12 March 2025 (7 nights)")
	assert.Contains(t, msg, "**Departure**: Yokohama")
	assert.Contains(t, msg, "**Arrival**: Kobe")
	assert.Contains(t, msg, "[Book now](https://example.com/cruises)")
}

func TestFormatWithoutDuration(t *testing.T) {
	l := listing.Listing{
		Price:         99,
		Ship:          listing.DefaultShip,
		DateText:      listing.UnknownDate,
		DeparturePort: listing.UnknownPort,
		ArrivalPort:   listing.UnknownPort,
	}

	msg := Format(l, "£", "https://example.com/cruises")
	assert.Contains(t, msg, "**Date**: unknown date\n")
}

func TestFormatUsesConfiguredCurrency(t *testing.T) {
	l := listing.Listing{
		Price:         320,
		Ship:          "MSC Bellissima",
		DateText:      "12 March 2025",
		DeparturePort: "Yokohama",
		ArrivalPort:   "Kobe",
	}

	msg := Format(l, "€", "https://example.com/cruises")
	assert.Contains(t, msg, "**Price**: €320")
	assert.NotContains(t, msg, "£")
}
