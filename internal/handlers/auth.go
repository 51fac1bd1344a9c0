package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/auth"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/profiles"
)

type AuthHandler struct {
	repo      *auth.Repository
	profiles  *profiles.Repository
	tokens    *auth.TokenService
	validator *validator.Validate
}

func NewAuthHandler(repo *auth.Repository, profiles *profiles.Repository, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		repo:      repo,
		profiles:  profiles,
		tokens:    tokens,
		validator: validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondServerError(w, r, err, "Failed to process password")
		return
	}

	user, err := h.repo.CreateUser(r.Context(), req.Email, passwordHash, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondError(w, http.StatusConflict, "User with this email already exists")
		case errors.Is(err, auth.ErrUsernameTaken):
			respondError(w, http.StatusConflict, "Username already taken")
		default:
			respondServerError(w, r, err, "Failed to create user")
		}
		return
	}

	h.respondSession(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	user, err := h.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondServerError(w, r, err, "Failed to fetch user")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondSession(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	tokens, err := h.generateTokens(r, user.ID)
	if err != nil {
		respondServerError(w, r, err, "Failed to generate tokens")
		return
	}

	profile, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil && !errors.Is(err, profiles.ErrProfileNotFound) {
		respondServerError(w, r, err, "Failed to fetch profile")
		return
	}

	respondJSON(w, status, models.AuthResponse{
		User:         user,
		Profile:      profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Refresh rotates the refresh token; the presented one stops working.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	rt, err := h.repo.GetRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	if err := h.repo.DeleteRefreshToken(r.Context(), req.RefreshToken); err != nil {
		respondServerError(w, r, err, "Failed to invalidate old token")
		return
	}

	tokens, err := h.generateTokens(r, rt.UserID)
	if err != nil {
		respondServerError(w, r, err, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil && !errors.Is(err, profiles.ErrProfileNotFound) {
		respondServerError(w, r, err, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	_ = h.repo.DeleteRefreshToken(r.Context(), req.RefreshToken)

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) generateTokens(r *http.Request, userID uuid.UUID) (*models.TokenResponse, error) {
	sess, err := h.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}

	if err := h.repo.SaveRefreshToken(r.Context(), userID, sess.RefreshToken, sess.RefreshExpiresAt); err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}, nil
}
