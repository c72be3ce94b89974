package properties

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/cache"
)

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// Backend is the part of the REST client that serves public listings.
type Backend interface {
	ListProperties(ctx context.Context, q models.PropertyQuery) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

type Service interface {
	Search(ctx context.Context, q models.PropertyQuery) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
}

type ServiceImpl struct {
	backend Backend
	caches  *cache.CacheManager
	logger  *zap.Logger
}

func NewService(backend Backend, caches *cache.CacheManager, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{backend: backend, caches: caches, logger: logger}
}

// Normalize trims the query and clamps the limit to [1, MaxLimit].
func Normalize(q models.PropertyQuery) models.PropertyQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.City = strings.TrimSpace(q.City)
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}

func (s *ServiceImpl) Search(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	q = Normalize(q)
	key := cache.NewCacheKeyBuilder(s.logger).
		Add("q", strings.ToLower(q.Search)).
		Add("city", strings.ToLower(q.City)).
		Add("limit", q.Limit).
		BuildOrDefault()

	props, err := s.caches.Listings.GetOrLoad(ctx, key, func(ctx context.Context) ([]models.Property, error) {
		return s.backend.ListProperties(ctx, q)
	})
	if err != nil {
		s.logger.Error("Listing properties failed", zap.String("q", q.Search), zap.String("city", q.City), zap.Error(err))
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return props, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*models.Property, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("property id: %w", models.ErrBadRequest)
	}
	p, err := s.caches.Properties.GetOrLoad(ctx, id, func(ctx context.Context) (models.Property, error) {
		p, err := s.backend.GetProperty(ctx, id)
		if err != nil {
			return models.Property{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
