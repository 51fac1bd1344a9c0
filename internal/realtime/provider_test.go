package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/profiles"
)

type stubProfiles map[uuid.UUID]*models.Profile

func (s stubProfiles) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, profiles.ErrProfileNotFound
}

type stubDives struct {
	dives []*models.Dive
	err   error
}

func (s stubDives) List(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error) {
	return s.dives, s.err
}

func TestProvider_GetReadyState(t *testing.T) {
	userID := uuid.New()
	stored := &models.Profile{ID: userID, Username: "nemo", BuddyName: "거북이", Level: 2}
	list := []*models.Dive{
		{ID: uuid.New(), UserID: userID, Date: time.Now(), Duration: 45, DepthMax: 21},
		{ID: uuid.New(), UserID: userID, Date: time.Now().AddDate(0, 0, -3), Duration: 38, DepthMax: 17.5},
	}

	p := NewProvider(stubProfiles{userID: stored}, stubDives{dives: list})
	ready, err := p.GetReadyState(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, stored, ready.Profile)
	assert.Len(t, ready.Dives, 2)
	assert.Equal(t, &models.DiveStats{TotalDives: 2, TotalMinutes: 83, MaxDepth: 21}, ready.Stats)
}

func TestProvider_NewUserGetsDefaults(t *testing.T) {
	userID := uuid.New()
	p := NewProvider(stubProfiles{}, stubDives{})

	ready, err := p.GetReadyState(context.Background(), userID)
	require.NoError(t, err)

	require.NotNil(t, ready.Profile)
	assert.Equal(t, userID, ready.Profile.ID)
	assert.False(t, ready.Profile.Onboarded())
	assert.NotNil(t, ready.Dives)
	assert.Equal(t, 0, ready.Stats.TotalDives)
}

func TestProvider_PropagatesErrors(t *testing.T) {
	p := NewProvider(stubProfiles{}, stubDives{err: assert.AnError})
	_, err := p.GetReadyState(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
}
