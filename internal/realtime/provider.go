package realtime

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/dives"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/profiles"
	"golang.org/x/sync/errgroup"
)

type ProfileGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type DiveLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error)
}

// Provider implements DataProvider interface
type Provider struct {
	profiles ProfileGetter
	dives    DiveLister
}

func NewProvider(profiles ProfileGetter, dives DiveLister) *Provider {
	return &Provider{profiles: profiles, dives: dives}
}

func (p *Provider) GetReadyState(ctx context.Context, userID uuid.UUID) (*models.ReadyEvent, error) {
	var (
		profile *models.Profile
		list    []*models.Dive
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = p.profiles.Get(gctx, userID)
		if errors.Is(err, profiles.ErrProfileNotFound) {
			profile, err = profiles.Merge(userID, nil, models.UpdateProfileRequest{}), nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		list, err = p.dives.List(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if list == nil {
		list = []*models.Dive{}
	}
	return &models.ReadyEvent{
		Profile: profile,
		Dives:   list,
		Stats:   dives.ComputeStats(list),
	}, nil
}
