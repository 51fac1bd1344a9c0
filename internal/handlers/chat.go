package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/cache"
	"github.com/user/mysea-back/internal/guide"
)

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type ChatHandler struct {
	guide     *guide.Guide
	limiter   RateLimiter
	limit     int
	validator *validator.Validate
}

// NewChatHandler builds the guide endpoints. A nil limiter or a zero limit
// disables rate limiting.
func NewChatHandler(g *guide.Guide, limiter RateLimiter, perMinute int) *ChatHandler {
	return &ChatHandler{
		guide:     g,
		limiter:   limiter,
		limit:     perMinute,
		validator: validator.New(),
	}
}

type ChatMessageRequest struct {
	Content  string `json:"content" validate:"required_without=ImageURL,max=2000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type ChatExchange struct {
	Message guide.Message `json:"message"`
	Reply   guide.Message `json:"reply"`
}

func (h *ChatHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.guide.Greet())
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ChatMessageRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	if h.limiter != nil && h.limit > 0 {
		allowed, err := h.limiter.CheckRateLimit(r.Context(), cache.ChatRateKey(userID.String()), h.limit, time.Minute)
		if err != nil {
			// Redis trouble should not silence the guide.
			logrus.WithError(err).Warn("Chat rate limit check failed")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Too many messages, try again in a minute")
			return
		}
	}

	msg, reply := h.guide.Reply(req.Content, req.ImageURL)
	respondJSON(w, http.StatusOK, ChatExchange{Message: msg, Reply: reply})
}
