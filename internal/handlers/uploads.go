package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/storage"
)

const (
	maxPhotoSize    = 10 << 20
	presignValidity = 15 * time.Minute
)

type PhotoStorage interface {
	UploadPhoto(ctx context.Context, userID uuid.UUID, folder storage.Folder, filename, contentType string, reader io.Reader) (string, error)
	PresignPhotoUpload(ctx context.Context, userID uuid.UUID, folder storage.Folder, filename, contentType string, expiresIn time.Duration) (*storage.PresignedUpload, error)
	DeletePhoto(ctx context.Context, userID uuid.UUID, fileURL string) error
}

type UploadsHandler struct {
	storage   PhotoStorage
	validator *validator.Validate
}

func NewUploadsHandler(storage PhotoStorage) *UploadsHandler {
	return &UploadsHandler{storage: storage, validator: validator.New()}
}

type PhotoUploadResponse struct {
	URL string `json:"url"`
}

type DeletePhotoRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type PresignPhotoRequest struct {
	Folder      string `json:"folder" validate:"required,oneof=diary sightings chat"`
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadPhoto takes a multipart "photo" file plus a "folder" field and returns
// the public URL. Nothing is added to any scene here.
func (h *UploadsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respondError(w, http.StatusBadRequest, "File too large (max 10MB)")
		return
	}

	folder := storage.Folder(r.FormValue("folder"))
	if folder == "" {
		folder = storage.FolderDiary
	}
	if !folder.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown upload folder")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.storage.UploadPhoto(r.Context(), userID, folder, header.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImageType) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServerError(w, r, err, "Failed to upload photo")
		return
	}

	respondJSON(w, http.StatusCreated, PhotoUploadResponse{URL: url})
}

func (h *UploadsHandler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req PresignPhotoRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	up, err := h.storage.PresignPhotoUpload(r.Context(), userID, storage.Folder(req.Folder), req.Filename, req.ContentType, presignValidity)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImageType) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServerError(w, r, err, "Failed to presign upload")
		return
	}

	respondJSON(w, http.StatusOK, up)
}

// DeletePhoto removes an upload the client abandoned, such as a photo picked
// for the diary and then cancelled.
func (h *UploadsHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DeletePhotoRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	if err := h.storage.DeletePhoto(r.Context(), userID, req.URL); err != nil {
		if errors.Is(err, storage.ErrForeignObject) {
			respondError(w, http.StatusForbidden, "Photo does not belong to you")
			return
		}
		respondServerError(w, r, err, "Failed to delete photo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
