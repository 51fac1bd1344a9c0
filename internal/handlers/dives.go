package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/dives"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/species"
)

type DiveService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error)
	GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*models.DiveWithDetails, error)
	Create(ctx context.Context, d *models.Dive, details *models.DiveDetail) (*models.Dive, error)
	Update(ctx context.Context, userID, id uuid.UUID, req models.UpdateDiveRequest) (*models.Dive, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AddSighting(ctx context.Context, userID uuid.UUID, s *models.MarineSighting) (*models.MarineSighting, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.DiveStats, error)
}

type SpeciesLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.MarineSpecies, error)
}

type DivesHandler struct {
	service   DiveService
	species   SpeciesLookup
	notifier  Notifier
	validator *validator.Validate
}

func NewDivesHandler(service DiveService, species SpeciesLookup, notifier Notifier) *DivesHandler {
	return &DivesHandler{
		service:   service,
		species:   species,
		notifier:  notifierOrNop(notifier),
		validator: validator.New(),
	}
}

func (h *DivesHandler) ListDives(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondServerError(w, r, err, "Failed to list dives")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

func (h *DivesHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		respondServerError(w, r, err, "Failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *DivesHandler) GetDive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	dive, err := h.service.GetWithDetails(r.Context(), userID, diveID)
	if err != nil {
		h.diveError(w, r, err, "Failed to fetch dive")
		return
	}

	respondJSON(w, http.StatusOK, dive)
}

func (h *DivesHandler) CreateDive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateDiveRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	dive, err := h.service.Create(r.Context(), &models.Dive{
		UserID:      userID,
		Date:        req.Date,
		SiteName:    req.SiteName,
		Location:    req.Location,
		DepthMax:    req.DepthMax,
		DepthAvg:    req.DepthAvg,
		Duration:    req.Duration,
		Coordinates: req.Coordinates,
		Visibility:  req.Visibility,
		Notes:       req.Notes,
	}, req.Details)
	if err != nil {
		respondServerError(w, r, err, "Failed to create dive")
		return
	}

	_ = h.notifier.NotifyUser(userID, models.EventDiveCreate, dive)
	respondJSON(w, http.StatusCreated, dive)
}

func (h *DivesHandler) UpdateDive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	var req models.UpdateDiveRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	dive, err := h.service.Update(r.Context(), userID, diveID, req)
	if err != nil {
		h.diveError(w, r, err, "Failed to update dive")
		return
	}

	_ = h.notifier.NotifyUser(userID, models.EventDiveUpdate, dive)
	respondJSON(w, http.StatusOK, dive)
}

func (h *DivesHandler) DeleteDive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, diveID); err != nil {
		h.diveError(w, r, err, "Failed to delete dive")
		return
	}

	_ = h.notifier.NotifyUser(userID, models.EventDiveDelete, models.DiveDeleteEvent{DiveID: diveID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *DivesHandler) AddSighting(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	var req models.AddSightingRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}
	speciesID := uuid.MustParse(req.SpeciesID)

	sp, err := h.species.Get(r.Context(), speciesID)
	if err != nil {
		if errors.Is(err, species.ErrSpeciesNotFound) {
			respondError(w, http.StatusNotFound, "Species not found")
			return
		}
		respondServerError(w, r, err, "Failed to fetch species")
		return
	}

	sighting, err := h.service.AddSighting(r.Context(), userID, &models.MarineSighting{
		DiveID:    diveID,
		SpeciesID: speciesID,
		Count:     req.Count,
		PhotoURL:  req.PhotoURL,
		Notes:     req.Notes,
	})
	if err != nil {
		h.diveError(w, r, err, "Failed to add sighting")
		return
	}
	sighting.Species = sp

	_ = h.notifier.NotifyUser(userID, models.EventSightingAdd, models.SightingAddEvent{DiveID: diveID, Sighting: sighting})
	respondJSON(w, http.StatusCreated, sighting)
}

func (h *DivesHandler) diveError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, dives.ErrDiveNotFound) {
		respondError(w, http.StatusNotFound, "Dive not found")
		return
	}
	respondServerError(w, r, err, message)
}
