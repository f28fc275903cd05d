package country

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/logging"
)

// Source is the remote side of the repository.
type Source interface {
	NameFetcher
	FetchAll(ctx context.Context) ([]Country, error)
}

// Service is the session object handed to the presentation layer. It owns
// the Cache and routes every read through it.
type Service struct {
	source  Source
	cache   *Cache
	popular []string
	logger  *zap.Logger
}

// NewService wires a Service. popular names the homepage destinations.
func NewService(source Source, cache *Cache, popular []string, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewCache(nil)
	}
	return &Service{
		source:  source,
		cache:   cache,
		popular: slices.Clone(popular),
		logger:  logging.OrNop(logger).Named("country-service"),
	}
}

// Cache exposes the session cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Countries returns the full dataset sorted alphabetically, loading it on first use.
func (s *Service) Countries(ctx context.Context) ([]Country, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return SortAlphabetically(all), nil
}

// Popular returns the configured destinations in dataset order.
func (s *Service) Popular(ctx context.Context) ([]Country, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPopular(all, s.popular), nil
}

// Search filters the loaded dataset by query.
func (s *Service) Search(ctx context.Context, query string) ([]Country, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return Search(all, query), nil
}

// Lookup resolves a single country for the detail view. It warms the cache
// first; a warm-up failure is logged and the lookup falls through to the
// by-name endpoint.
func (s *Service) Lookup(ctx context.Context, name string) (Country, error) {
	if !s.cache.Loaded() {
		if _, err := s.load(ctx); err != nil {
			s.logger.Warn("could not warm country cache", zap.Error(err))
		}
	}
	country, err := LookupByName(ctx, s.cache, s.source, name)
	if err != nil {
		s.logger.Info("country lookup failed", zap.String("name", name), zap.Error(err))
		return Country{}, err
	}
	return country, nil
}

func (s *Service) load(ctx context.Context) ([]Country, error) {
	return s.cache.Load(ctx, s.source.FetchAll)
}
