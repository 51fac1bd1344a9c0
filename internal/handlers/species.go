package handlers

import (
	"errors"
	"net/http"

	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/species"
)

type SpeciesHandler struct {
	service *species.Service
}

func NewSpeciesHandler(service *species.Service) *SpeciesHandler {
	return &SpeciesHandler{service: service}
}

// ListSpecies supports ?category=Fish|...|All and ?q= for name search.
func (h *SpeciesHandler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	category := models.MarineCategory(r.URL.Query().Get("category"))
	if category != "" && !species.ValidCategory(category) {
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	list, err := h.service.List(r.Context(), category, r.URL.Query().Get("q"))
	if err != nil {
		respondServerError(w, r, err, "Failed to list species")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

func (h *SpeciesHandler) GetSpecies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "species")
	if !ok {
		return
	}

	sp, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, species.ErrSpeciesNotFound) {
			respondError(w, http.StatusNotFound, "Species not found")
			return
		}
		respondServerError(w, r, err, "Failed to fetch species")
		return
	}

	respondJSON(w, http.StatusOK, sp)
}
