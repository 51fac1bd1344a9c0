package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/cache"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/stickers"
)

type StickersHandler struct {
	repo      *stickers.Repository
	cache     *cache.RedisCache
	validator *validator.Validate
}

func NewStickersHandler(repo *stickers.Repository, cache *cache.RedisCache) *StickersHandler {
	return &StickersHandler{
		repo:      repo,
		cache:     cache,
		validator: validator.New(),
	}
}

// GetPalette returns the diary sticker glyphs
func (h *StickersHandler) GetPalette(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var cached []*models.Sticker
		if err := h.cache.GetJSON(r.Context(), cache.StickerPaletteKey, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	palette, err := h.repo.ListStickers(r.Context())
	if err != nil {
		respondServerError(w, r, err, "Failed to get stickers")
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cache.StickerPaletteKey, palette, cache.StickerPaletteTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache sticker palette")
		}
	}

	respondJSON(w, http.StatusOK, palette)
}

// AddSticker appends a glyph to the palette
func (h *StickersHandler) AddSticker(w http.ResponseWriter, r *http.Request) {
	var req models.AddStickerRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	sticker, err := h.repo.AddSticker(r.Context(), req.Glyph, req.Label)
	if err != nil {
		if errors.Is(err, stickers.ErrStickerExists) {
			respondError(w, http.StatusConflict, "Sticker already in palette")
			return
		}
		respondServerError(w, r, err, "Failed to add sticker")
		return
	}

	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), cache.StickerPaletteKey)
	}

	respondJSON(w, http.StatusCreated, sticker)
}

func (h *StickersHandler) DeleteSticker(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "sticker")
	if !ok {
		return
	}

	if err := h.repo.DeleteSticker(r.Context(), id); err != nil {
		if errors.Is(err, stickers.ErrStickerNotFound) {
			respondError(w, http.StatusNotFound, "Sticker not found")
			return
		}
		respondServerError(w, r, err, "Failed to delete sticker")
		return
	}

	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), cache.StickerPaletteKey)
	}

	w.WriteHeader(http.StatusNoContent)
}
