package quotes

import (
	"fmt"
	"sort"

	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/metrics"
)

// FactoryFunc creates a Source from the application configuration. The
// returned close function releases any connection the source holds.
type FactoryFunc func(cfg *config.Config) (Source, func() error, error)

// ProviderFactory creates quote sources by provider name
type ProviderFactory struct {
	factories map[string]FactoryFunc
}

// NewProviderFactory creates a factory with the built-in providers registered
func NewProviderFactory() *ProviderFactory {
	f := &ProviderFactory{
		factories: make(map[string]FactoryFunc),
	}

	f.factories["yahoo"] = func(cfg *config.Config) (Source, func() error, error) {
		return NewYahooSource(cfg.Quotes.RequestTimeout), noopClose, nil
	}
	f.factories["timescale"] = func(cfg *config.Config) (Source, func() error, error) {
		src, err := NewTimescaleSource(cfg.Database, cfg.Quotes.Table)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	f.factories["mock"] = func(cfg *config.Config) (Source, func() error, error) {
		return NewSyntheticSource(), noopClose, nil
	}

	return f
}

// RegisterProvider registers a custom provider
func (f *ProviderFactory) RegisterProvider(name string, factory FactoryFunc) error {
	if _, exists := f.factories[name]; exists {
		return fmt.Errorf("provider type already registered: %s", name)
	}
	f.factories[name] = factory
	return nil
}

// ListProviders returns the sorted names of the registered providers
func (f *ProviderFactory) ListProviders() []string {
	names := make([]string, 0, len(f.factories))
	for name := range f.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the configured source, wrapped in the Redis cache when
// caching is enabled
func (f *ProviderFactory) Create(cfg *config.Config, collector *metrics.Collector) (Source, func() error, error) {
	factory, exists := f.factories[cfg.Quotes.Provider]
	if !exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Quotes.Provider)
	}

	src, closeSrc, err := factory(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s source: %w", cfg.Quotes.Provider, err)
	}

	if !cfg.Cache.Enabled {
		return src, closeSrc, nil
	}

	cache, err := NewRedisCache(cfg.Redis)
	if err != nil {
		_ = closeSrc()
		return nil, nil, err
	}

	closeAll := func() error {
		cacheErr := cache.Close()
		if err := closeSrc(); err != nil {
			return err
		}
		return cacheErr
	}
	var observer CacheObserver
	if collector != nil {
		observer = collector
	}
	return NewCachedSource(src, cache, cfg.Cache.TTL, observer), closeAll, nil
}

func noopClose() error { return nil }
