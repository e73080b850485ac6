package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"cruisescanner/internal/extractor"
	"cruisescanner/internal/listing"
	"cruisescanner/internal/loader"
	"cruisescanner/services/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLoader implements loader.Loader for testing
type MockLoader struct {
	cards    []string
	cardsErr error
}

var _ loader.Loader = (*MockLoader)(nil)

func (m *MockLoader) Cards(ctx context.Context) ([]string, error) {
	return m.cards, m.cardsErr
}

func (m *MockLoader) Name() string {
	return "mock"
}

// MockNotifier records sent messages and can be made to fail
type MockNotifier struct {
	mu        sync.Mutex
	messages  []string
	notifyErr error
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockNotifier) Name() string {
	return "mock"
}

func (m *MockNotifier) Enabled() bool {
	return true
}

// MockPublisher records published payloads
type MockPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	trimmed  bool
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload := make([]byte, len(message))
	copy(payload, message)
	m.payloads = append(m.payloads, payload)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed = true
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func newTestPipeline(ld loader.Loader, hist *history.Set, nt *MockNotifier) *Pipeline {
	return New(
		ld,
		extractor.New("£"),
		listing.PriceBand{Min: 50, Max: 500},
		hist,
		nt,
		nil,
		0,
		"https://example.com/cruises",
	)
}

func card(price int, date string) string {
	return fmt.Sprintf("Ship MSC Bellissima • Date %s Duration 7 nights "+
		"Departure Yokohama Arrival Kobe From £ %d", date, price)
}

func TestRunNotifiesNewListings(t *testing.T) {
	ld := &MockLoader{cards: []string{
		card(180, "12 March 2025"),
		card(220, "19 March 2025"),
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	count, err := newTestPipeline(ld, hist, nt).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Len(t, nt.messages, 2)
	assert.Contains(t, nt.messages[0], "**Price**: £180")
	assert.Equal(t, 2, hist.Len())
}

func TestRunIdempotentDedup(t *testing.T) {
	ld := &MockLoader{cards: []string{
		card(180, "12 March 2025"),
		card(220, "19 March 2025"),
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	first, err := newTestPipeline(ld, hist, nt).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first)

	// Second run over unchanged loader output with the grown history set
	// must produce zero new notifications.
	p := newTestPipeline(ld, hist, nt)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, second)
	assert.Equal(t, 2, p.Stats().Duplicates)
	assert.Len(t, nt.messages, 2, "no additional sends on the second run")
	assert.Equal(t, 2, hist.Len(), "history does not grow on the second run")
}

func TestRunPriceBandBoundaries(t *testing.T) {
	ld := &MockLoader{cards: []string{
		card(49, "01 May 2025"),  // min-1: excluded
		card(50, "02 May 2025"),  // min: included
		card(500, "03 May 2025"), // max: included
		card(501, "04 May 2025"), // max+1: excluded
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	p := newTestPipeline(ld, hist, nt)
	count, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, p.Stats().OutOfBand)
	assert.Contains(t, nt.messages[0], "£50")
	assert.Contains(t, nt.messages[1], "£500")
}

func TestRunSkipsCardsWithoutPrice(t *testing.T) {
	ld := &MockLoader{cards: []string{
		"Ship MSC Bellissima • Duration 7 nights no price here",
		card(180, "12 March 2025"),
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	p := newTestPipeline(ld, hist, nt)
	count, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, p.Stats().NoPrice)
}

func TestRunNotifyFailureDoesNotAbort(t *testing.T) {
	ld := &MockLoader{cards: []string{
		card(180, "12 March 2025"),
		card(220, "19 March 2025"),
	}}
	hist := history.NewSet()
	nt := &MockNotifier{notifyErr: errors.New("webhook down")}

	p := newTestPipeline(ld, hist, nt)
	count, err := p.Run(context.Background())
	require.NoError(t, err)

	// Identities are still recorded so the next run does not re-alert.
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, p.Stats().NotifyFailures)
	assert.Equal(t, 2, hist.Len())
}

func TestRunLoaderFailureAborts(t *testing.T) {
	ld := &MockLoader{cardsErr: errors.New("page unreachable")}
	hist := history.NewSet()
	nt := &MockNotifier{}

	count, err := newTestPipeline(ld, hist, nt).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, hist.Len())
}

func TestRunPublishesToStream(t *testing.T) {
	ld := &MockLoader{cards: []string{card(180, "12 March 2025")}}
	hist := history.NewSet()
	nt := &MockNotifier{}
	pub := &MockPublisher{}

	p := New(
		ld,
		extractor.New("£"),
		listing.PriceBand{Min: 50, Max: 500},
		hist,
		nt,
		pub,
		0,
		"https://example.com/cruises",
	)

	count, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Len(t, pub.payloads, 1)
	assert.Contains(t, string(pub.payloads[0]), `"price":180`)
	assert.True(t, pub.trimmed, "streams are trimmed after the run")
}

func TestRunFormatsWithConfiguredCurrency(t *testing.T) {
	ld := &MockLoader{cards: []string{
		"Ship MSC Bellissima • Date 12 March 2025 Duration 7 nights From € 180",
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	p := New(
		ld,
		extractor.New("€"),
		listing.PriceBand{Min: 50, Max: 500},
		hist,
		nt,
		nil,
		0,
		"https://example.com/cruises",
	)

	count, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	assert.Contains(t, nt.messages[0], "**Price**: €180")
}

func TestRunDuplicateWithinBatch(t *testing.T) {
	// The same listing appearing twice in one batch notifies once.
	ld := &MockLoader{cards: []string{
		card(180, "12 March 2025"),
		card(180, "12 March 2025"),
	}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	p := newTestPipeline(ld, hist, nt)
	count, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, p.Stats().Duplicates)
}

func TestRunCancelledContext(t *testing.T) {
	ld := &MockLoader{cards: []string{card(180, "12 March 2025")}}
	hist := history.NewSet()
	nt := &MockNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(ld, hist, nt).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
