package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://www.seascanner.co.uk/destinations/far-east-cruises/japan-cruises", config.TargetURL)
	assert.Equal(t, "£", config.CurrencySymbol)
	assert.Equal(t, 50, config.PriceMin)
	assert.Equal(t, 500, config.PriceMax)
	assert.Equal(t, "history_seascanner.json", config.HistoryFile)
	assert.Equal(t, time.Second, config.NotifyDelay)
	assert.True(t, config.UseChrome)
	assert.Equal(t, 15, config.ScrollRounds)
	assert.Equal(t, 8*time.Second, config.PageWait)
	assert.Equal(t, "", config.DiscordWebhookURL)
	assert.Equal(t, "", config.RedisAddr)

	// Test with environment variables
	os.Setenv("TARGET_URL", "https://example.com/cruises")
	os.Setenv("PRICE_MIN", "100")
	os.Setenv("PRICE_MAX", "400")
	os.Setenv("USE_CHROME", "false")
	os.Setenv("HISTORY_FILE", "seen.json")
	os.Setenv("NOTIFY_DELAY_SECONDS", "2")

	config = LoadConfig()
	assert.Equal(t, "https://example.com/cruises", config.TargetURL)
	assert.Equal(t, 100, config.PriceMin)
	assert.Equal(t, 400, config.PriceMax)
	assert.False(t, config.UseChrome)
	assert.Equal(t, "seen.json", config.HistoryFile)
	assert.Equal(t, 2*time.Second, config.NotifyDelay)

	// Clean up
	os.Unsetenv("TARGET_URL")
	os.Unsetenv("PRICE_MIN")
	os.Unsetenv("PRICE_MAX")
	os.Unsetenv("USE_CHROME")
	os.Unsetenv("HISTORY_FILE")
	os.Unsetenv("NOTIFY_DELAY_SECONDS")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	inverted := config
	inverted.PriceMin = 600
	assert.Error(t, inverted.Validate(), "min above max is rejected")

	noURL := config
	noURL.TargetURL = ""
	assert.Error(t, noURL.Validate())

	noRounds := config
	noRounds.ScrollRounds = 0
	assert.Error(t, noRounds.Validate())

	noStore := config
	noStore.HistoryFile = ""
	noStore.HistoryDSN = ""
	assert.Error(t, noStore.Validate())

	negativeMin := config
	negativeMin.PriceMin = -1
	assert.Error(t, negativeMin.Validate())
}
