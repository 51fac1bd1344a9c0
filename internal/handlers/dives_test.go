package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mysea-back/internal/dives"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/species"
)

type memDiveStore struct {
	mu        sync.Mutex
	dives     map[uuid.UUID]*models.Dive
	sightings map[uuid.UUID][]*models.MarineSighting
}

func (m *memDiveStore) ListDives(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Dive{}
	for _, d := range m.dives {
		if d.UserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDiveStore) GetDive(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dives[id]
	if !ok || d.UserID != userID {
		return nil, dives.ErrDiveNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDiveStore) CreateDive(ctx context.Context, d *models.Dive, details *models.DiveDetail) (*models.Dive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	m.dives[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memDiveStore) UpdateDive(ctx context.Context, d *models.Dive) (*models.Dive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.dives[d.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memDiveStore) DeleteDive(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dives[id]
	if !ok || d.UserID != userID {
		return dives.ErrDiveNotFound
	}
	delete(m.dives, id)
	return nil
}

func (m *memDiveStore) GetDetails(ctx context.Context, diveID uuid.UUID) (*models.DiveDetail, error) {
	return nil, dives.ErrDetailsNotFound
}

func (m *memDiveStore) ListSightings(ctx context.Context, diveID uuid.UUID) ([]*models.MarineSighting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sightings[diveID], nil
}

func (m *memDiveStore) AddSighting(ctx context.Context, s *models.MarineSighting) (*models.MarineSighting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.ID = uuid.New()
	m.sightings[s.DiveID] = append(m.sightings[s.DiveID], &cp)
	return &cp, nil
}

type fakeSpecies map[uuid.UUID]*models.MarineSpecies

func (f fakeSpecies) Get(ctx context.Context, id uuid.UUID) (*models.MarineSpecies, error) {
	if sp, ok := f[id]; ok {
		return sp, nil
	}
	return nil, species.ErrSpeciesNotFound
}

func newDivesServer(t *testing.T, catalogue fakeSpecies) (*httptest.Server, *recordingNotifier) {
	t.Helper()
	store := &memDiveStore{
		dives:     map[uuid.UUID]*models.Dive{},
		sightings: map[uuid.UUID][]*models.MarineSighting{},
	}
	svc, err := dives.NewService(store, 8)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	h := NewDivesHandler(svc, catalogue, notifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dives", h.ListDives)
	mux.HandleFunc("POST /api/dives", h.CreateDive)
	mux.HandleFunc("GET /api/dives/stats", h.GetStats)
	mux.HandleFunc("GET /api/dives/{id}", h.GetDive)
	mux.HandleFunc("PATCH /api/dives/{id}", h.UpdateDive)
	mux.HandleFunc("DELETE /api/dives/{id}", h.DeleteDive)
	mux.HandleFunc("POST /api/dives/{id}/sightings", h.AddSighting)

	server := httptest.NewServer(withTestUser(mux))
	t.Cleanup(server.Close)
	return server, notifier
}

func TestDivesHandler_Lifecycle(t *testing.T) {
	turtle := &models.MarineSpecies{ID: uuid.New(), NameKR: "바다거북", Category: models.CategoryReptile}
	server, notifier := newDivesServer(t, fakeSpecies{turtle.ID: turtle})
	user := uuid.New()

	var created models.Dive
	status := doRequest(t, server, user, http.MethodPost, "/api/dives", models.CreateDiveRequest{
		Date:     time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC),
		SiteName: "문섬",
		DepthMax: 21,
		DepthAvg: 12,
		Duration: 45,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, user, created.UserID)

	var list []*models.Dive
	require.Equal(t, http.StatusOK, doRequest(t, server, user, http.MethodGet, "/api/dives", nil, &list))
	require.Len(t, list, 1)

	site := "섶섬"
	var updated models.Dive
	require.Equal(t, http.StatusOK, doRequest(t, server, user, http.MethodPatch, "/api/dives/"+created.ID.String(),
		models.UpdateDiveRequest{SiteName: &site}, &updated))
	assert.Equal(t, "섶섬", updated.SiteName)
	assert.Equal(t, 21.0, updated.DepthMax)

	var sighting models.MarineSighting
	require.Equal(t, http.StatusCreated, doRequest(t, server, user, http.MethodPost, "/api/dives/"+created.ID.String()+"/sightings",
		models.AddSightingRequest{SpeciesID: turtle.ID.String(), Count: 2}, &sighting))
	require.NotNil(t, sighting.Species)
	assert.Equal(t, "바다거북", sighting.Species.NameKR)

	var detail models.DiveWithDetails
	require.Equal(t, http.StatusOK, doRequest(t, server, user, http.MethodGet, "/api/dives/"+created.ID.String(), nil, &detail))
	assert.Nil(t, detail.Details)
	assert.Len(t, detail.Sightings, 1)

	var stats models.DiveStats
	require.Equal(t, http.StatusOK, doRequest(t, server, user, http.MethodGet, "/api/dives/stats", nil, &stats))
	assert.Equal(t, models.DiveStats{TotalDives: 1, TotalMinutes: 45, MaxDepth: 21}, stats)

	assert.Equal(t, http.StatusNoContent, doRequest(t, server, user, http.MethodDelete, "/api/dives/"+created.ID.String(), nil, nil))
	assert.Equal(t, http.StatusNotFound, doRequest(t, server, user, http.MethodGet, "/api/dives/"+created.ID.String(), nil, nil))

	assert.Equal(t, 1, notifier.count(models.EventDiveCreate))
	assert.Equal(t, 1, notifier.count(models.EventDiveUpdate))
	assert.Equal(t, 1, notifier.count(models.EventSightingAdd))
	assert.Equal(t, 1, notifier.count(models.EventDiveDelete))
}

func TestDivesHandler_Errors(t *testing.T) {
	server, _ := newDivesServer(t, fakeSpecies{})
	owner, stranger := uuid.New(), uuid.New()

	var created models.Dive
	require.Equal(t, http.StatusCreated, doRequest(t, server, owner, http.MethodPost, "/api/dives", models.CreateDiveRequest{
		Date:     time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC),
		SiteName: "범섬",
	}, &created))
	path := "/api/dives/" + created.ID.String()

	tests := []struct {
		name   string
		user   uuid.UUID
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"MissingSiteName", owner, http.MethodPost, "/api/dives", models.CreateDiveRequest{Date: time.Now()}, http.StatusBadRequest},
		{"AvgDeeperThanMax", owner, http.MethodPost, "/api/dives", models.CreateDiveRequest{Date: time.Now(), SiteName: "x", DepthMax: 5, DepthAvg: 9}, http.StatusBadRequest},
		{"BadID", owner, http.MethodGet, "/api/dives/not-a-uuid", nil, http.StatusBadRequest},
		{"ForeignGet", stranger, http.MethodGet, path, nil, http.StatusNotFound},
		{"ForeignDelete", stranger, http.MethodDelete, path, nil, http.StatusNotFound},
		{"UnknownSpecies", owner, http.MethodPost, path + "/sightings", models.AddSightingRequest{SpeciesID: uuid.NewString(), Count: 1}, http.StatusNotFound},
		{"ZeroCount", owner, http.MethodPost, path + "/sightings", models.AddSightingRequest{SpeciesID: uuid.NewString()}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doRequest(t, server, tt.user, tt.method, tt.path, tt.body, nil))
		})
	}
}
