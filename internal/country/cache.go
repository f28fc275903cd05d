package country

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JakeFAU/travelhub/internal/telemetry"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Cache holds the dataset for the lifetime of a session. It is filled at
// most once and never invalidated; reads are safe for concurrent use.
type Cache struct {
	loadMu sync.Mutex // serializes loaders so only one FetchAll is in flight

	mu        sync.RWMutex
	countries []Country
	loaded    bool
	loadedAt  time.Time
	clock     Clock
}

// NewCache returns an empty cache. clock may be nil.
func NewCache(clock Clock) *Cache {
	return &Cache{clock: clock}
}

// Fill stores countries if the cache is still empty and reports whether it
// did. An empty slice leaves the cache unfilled.
func (c *Cache) Fill(countries []Country) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded || len(countries) == 0 {
		return false
	}
	c.countries = slices.Clone(countries)
	c.loaded = true
	if c.clock != nil {
		c.loadedAt = c.clock.Now()
	}
	telemetry.SetCountryCacheSize(len(c.countries))
	return true
}

// Load returns the cached dataset, invoking fetch to fill it on first use.
// A failed fetch is returned to the caller and not remembered.
func (c *Cache) Load(ctx context.Context, fetch func(context.Context) ([]Country, error)) ([]Country, error) {
	if c.Loaded() {
		return c.Snapshot(), nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.Loaded() {
		return c.Snapshot(), nil
	}
	countries, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Fill(countries)
	return countries, nil
}

// Snapshot returns a copy of the cached records in cache order.
func (c *Cache) Snapshot() []Country {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.countries)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.countries)
}

// Loaded reports whether the cache has been filled.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadedAt reports when the cache was filled; zero when unfilled or clockless.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Find returns the record whose name equals name, ignoring case.
func (c *Cache) Find(name string) (Country, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, country := range c.countries {
		if country.Name != "" && strings.EqualFold(country.Name, name) {
			return country, true
		}
	}
	return Country{}, false
}

// NameFetcher looks records up on the remote service.
type NameFetcher interface {
	FetchByName(ctx context.Context, name string) ([]Country, error)
}

// LookupByName resolves name against the cache first and, on a miss or an
// empty cache, issues exactly one FetchByName and returns its first result.
func LookupByName(ctx context.Context, cache *Cache, fetcher NameFetcher, name string) (Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Country{}, fmt.Errorf("%w: no country specified", ErrNotFound)
	}
	if cache != nil && cache.Len() > 0 {
		if country, ok := cache.Find(name); ok {
			return country, nil
		}
	}
	countries, err := fetcher.FetchByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Country{}, err
		}
		return Country{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if len(countries) == 0 {
		return Country{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return countries[0], nil
}
