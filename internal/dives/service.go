package dives

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/mysea-back/internal/models"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence contract the service caches in front of.
type Store interface {
	ListDives(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error)
	GetDive(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error)
	CreateDive(ctx context.Context, d *models.Dive, details *models.DiveDetail) (*models.Dive, error)
	UpdateDive(ctx context.Context, d *models.Dive) (*models.Dive, error)
	DeleteDive(ctx context.Context, userID, id uuid.UUID) error
	GetDetails(ctx context.Context, diveID uuid.UUID) (*models.DiveDetail, error)
	ListSightings(ctx context.Context, diveID uuid.UUID) ([]*models.MarineSighting, error)
	AddSighting(ctx context.Context, s *models.MarineSighting) (*models.MarineSighting, error)
}

// Service keeps each user's dive list in an LRU and updates it after every
// successful mutation. The cache is never written before the store.
type Service struct {
	store Store
	lists *lru.Cache[uuid.UUID, []*models.Dive]
}

func NewService(store Store, cachedUsers int) (*Service, error) {
	lists, err := lru.New[uuid.UUID, []*models.Dive](cachedUsers)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, lists: lists}, nil
}

func sortDives(dives []*models.Dive) {
	sort.SliceStable(dives, func(i, j int) bool {
		if dives[i].Date.Equal(dives[j].Date) {
			return dives[i].CreatedAt.After(dives[j].CreatedAt)
		}
		return dives[i].Date.After(dives[j].Date)
	})
}

func copyDives(dives []*models.Dive) []*models.Dive {
	out := make([]*models.Dive, len(dives))
	for i, d := range dives {
		cp := *d
		out[i] = &cp
	}
	return out
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error) {
	if cached, ok := s.lists.Get(userID); ok {
		return copyDives(cached), nil
	}

	dives, err := s.store.ListDives(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.lists.Add(userID, copyDives(dives))
	return dives, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error) {
	if cached, ok := s.lists.Get(userID); ok {
		for _, d := range cached {
			if d.ID == id {
				cp := *d
				return &cp, nil
			}
		}
		return nil, ErrDiveNotFound
	}
	return s.store.GetDive(ctx, userID, id)
}

// GetWithDetails loads the dive, its details and sightings concurrently.
func (s *Service) GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*models.DiveWithDetails, error) {
	result := &models.DiveWithDetails{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.Get(gctx, userID, id)
		result.Dive = d
		return err
	})
	g.Go(func() error {
		dd, err := s.store.GetDetails(gctx, id)
		if errors.Is(err, ErrDetailsNotFound) {
			return nil
		}
		result.Details = dd
		return err
	})
	g.Go(func() error {
		sightings, err := s.store.ListSightings(gctx, id)
		result.Sightings = sightings
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result.Sightings == nil {
		result.Sightings = []*models.MarineSighting{}
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, d *models.Dive, details *models.DiveDetail) (*models.Dive, error) {
	created, err := s.store.CreateDive(ctx, d, details)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lists.Peek(created.UserID); ok {
		cp := *created
		next := append(copyDives(cached), &cp)
		sortDives(next)
		s.lists.Add(created.UserID, next)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req models.UpdateDiveRequest) (*models.Dive, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateDive(ctx, ApplyUpdate(current, req))
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lists.Peek(userID); ok {
		next := copyDives(cached)
		for i, d := range next {
			if d.ID == id {
				cp := *updated
				next[i] = &cp
			}
		}
		sortDives(next)
		s.lists.Add(userID, next)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.DeleteDive(ctx, userID, id); err != nil {
		return err
	}

	if cached, ok := s.lists.Peek(userID); ok {
		next := make([]*models.Dive, 0, len(cached))
		for _, d := range cached {
			if d.ID != id {
				next = append(next, d)
			}
		}
		s.lists.Add(userID, copyDives(next))
	}
	return nil
}

// AddSighting records a species seen on one of the user's dives.
func (s *Service) AddSighting(ctx context.Context, userID uuid.UUID, sighting *models.MarineSighting) (*models.MarineSighting, error) {
	if _, err := s.Get(ctx, userID, sighting.DiveID); err != nil {
		return nil, err
	}
	return s.store.AddSighting(ctx, sighting)
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*models.DiveStats, error) {
	dives, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeStats(dives), nil
}

func ComputeStats(dives []*models.Dive) *models.DiveStats {
	stats := &models.DiveStats{TotalDives: len(dives)}
	for _, d := range dives {
		stats.TotalMinutes += d.Duration
		if d.DepthMax > stats.MaxDepth {
			stats.MaxDepth = d.DepthMax
		}
	}
	return stats
}

// ApplyUpdate returns a copy of current with the set fields of req applied.
func ApplyUpdate(current *models.Dive, req models.UpdateDiveRequest) *models.Dive {
	d := *current
	if req.Date != nil {
		d.Date = *req.Date
	}
	if req.SiteName != nil {
		d.SiteName = *req.SiteName
	}
	if req.Location != nil {
		d.Location = *req.Location
	}
	if req.DepthMax != nil {
		d.DepthMax = *req.DepthMax
	}
	if req.DepthAvg != nil {
		d.DepthAvg = *req.DepthAvg
	}
	if req.Duration != nil {
		d.Duration = *req.Duration
	}
	if req.Coordinates != nil {
		c := *req.Coordinates
		d.Coordinates = &c
	}
	if req.Visibility != nil {
		d.Visibility = *req.Visibility
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	return &d
}
