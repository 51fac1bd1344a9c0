package species

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/models"
)

const (
	listCacheKey = "species:all"
	listCacheTTL = 10 * time.Minute
)

type Store interface {
	ListSpecies(ctx context.Context) ([]*models.MarineSpecies, error)
	GetSpecies(ctx context.Context, id uuid.UUID) (*models.MarineSpecies, error)
}

// Cache is the JSON cache in front of the encyclopedia. It may be nil.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) all(ctx context.Context) ([]*models.MarineSpecies, error) {
	if s.cache != nil {
		var cached []*models.MarineSpecies
		if err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	list, err := s.store.ListSpecies(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, listCacheKey, list, listCacheTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache species list")
		}
	}
	return list, nil
}

func (s *Service) List(ctx context.Context, category models.MarineCategory, query string) ([]*models.MarineSpecies, error) {
	list, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(list, category, query), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MarineSpecies, error) {
	list, err := s.all(ctx)
	if err == nil {
		for _, sp := range list {
			if sp.ID == id {
				return sp, nil
			}
		}
	}
	return s.store.GetSpecies(ctx, id)
}

// Invalidate drops the cached list after the catalogue changed.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, listCacheKey)
}
