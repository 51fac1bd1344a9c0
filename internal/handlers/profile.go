package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/profiles"
)

type ProfileHandler struct {
	repo      *profiles.Repository
	validator *validator.Validate
}

func NewProfileHandler(repo *profiles.Repository) *ProfileHandler {
	return &ProfileHandler{repo: repo, validator: validator.New()}
}

func profileResponse(p *models.Profile) models.ProfileResponse {
	return models.ProfileResponse{
		Profile:       p,
		Onboarded:     p.Onboarded(),
		LevelProgress: p.LevelProgress(),
	}
}

// GetProfile returns the stored profile, or the defaults before onboarding.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := h.repo.Get(r.Context(), userID)
	if errors.Is(err, profiles.ErrProfileNotFound) {
		p, err = profiles.Merge(userID, nil, models.UpdateProfileRequest{}), nil
	}
	if err != nil {
		respondServerError(w, r, err, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, profileResponse(p))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	current, err := h.repo.Get(r.Context(), userID)
	if err != nil && !errors.Is(err, profiles.ErrProfileNotFound) {
		respondServerError(w, r, err, "Failed to fetch profile")
		return
	}

	p, err := h.repo.Upsert(r.Context(), profiles.Merge(userID, current, req))
	if err != nil {
		if errors.Is(err, profiles.ErrUsernameExists) {
			respondError(w, http.StatusConflict, "Username already taken")
			return
		}
		respondServerError(w, r, err, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, profileResponse(p))
}
