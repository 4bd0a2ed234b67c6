package quotes

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/models"
)

// MockSource is an in-memory Source for testing
type MockSource struct {
	mu     sync.RWMutex
	quotes map[string][]models.Quote
	errs   map[string]error
	calls  []string
	// generate fills unknown symbols with a synthetic daily random walk
	generate bool
}

// NewMockSource creates an empty mock source
func NewMockSource() *MockSource {
	return &MockSource{
		quotes: make(map[string][]models.Quote),
		errs:   make(map[string]error),
	}
}

// NewSyntheticSource creates a mock source that generates a deterministic
// daily price walk for every symbol. Useful for running without network
// access.
func NewSyntheticSource() *MockSource {
	m := NewMockSource()
	m.generate = true
	return m
}

// Name returns the provider name
func (m *MockSource) Name() string {
	return "mock"
}

// SetQuotes sets the quotes returned for a symbol
func (m *MockSource) SetQuotes(symbol string, quotes []models.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = quotes
}

// SetCloses sets one daily quote per price, starting at start
func (m *MockSource) SetCloses(symbol string, start time.Time, closes ...float64) {
	quotes := make([]models.Quote, len(closes))
	for i, c := range closes {
		quotes[i] = models.Quote{
			Symbol:    symbol,
			Timestamp: start.AddDate(0, 0, i),
			AdjClose:  c,
		}
	}
	m.SetQuotes(symbol, quotes)
}

// SetError makes History fail for a symbol
func (m *MockSource) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
}

// Calls returns the symbols requested so far, in call order
func (m *MockSource) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// History returns the stored quotes of symbol within [start, end]
func (m *MockSource) History(ctx context.Context, symbol string, start, end time.Time) ([]models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	err := m.errs[symbol]
	stored, exists := m.quotes[symbol]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !exists && m.generate {
		return generateDaily(symbol, start, end), nil
	}

	var result []models.Quote
	for _, q := range stored {
		if !q.Timestamp.Before(start) && !q.Timestamp.After(end) {
			result = append(result, q)
		}
	}
	return result, nil
}

// generateDaily produces one quote per weekday between start and end. The
// walk is seeded from the symbol so repeated runs agree.
func generateDaily(symbol string, start, end time.Time) []models.Quote {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	price := 20 + rng.Float64()*480
	var quotes []models.Quote
	for day := start.Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Before(start) || day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		price = math.Max(0.01, price*(1+rng.NormFloat64()*0.02))
		quotes = append(quotes, models.Quote{
			Symbol:    symbol,
			Timestamp: day,
			AdjClose:  math.Round(price*100) / 100,
		})
	}
	return quotes
}

// MockCache is an in-memory Cache for testing
type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	GetErr  error
	SetErr  error
}

// NewMockCache creates an empty mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return nil, c.GetErr
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SetErr != nil {
		return c.SetErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

// TTL returns the expiry a key was stored with
func (c *MockCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

// Keys returns the number of cached entries
func (c *MockCache) Keys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
