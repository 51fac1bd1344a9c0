package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 390.0, cfg.CanvasWidth)
	assert.Equal(t, 844.0, cfg.CanvasHeight)
	assert.Equal(t, 30*time.Minute, cfg.EditorSessionTTL)
	assert.Equal(t, 20, cfg.ChatRateLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CANVAS_WIDTH", "428")
	t.Setenv("EDITOR_SESSION_TTL", "5m")
	t.Setenv("CHAT_RATE_LIMIT", "3")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 428.0, cfg.CanvasWidth)
	assert.Equal(t, 5*time.Minute, cfg.EditorSessionTTL)
	assert.Equal(t, 3, cfg.ChatRateLimit)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("CANVAS_HEIGHT", "-1")
	t.Setenv("EDITOR_SESSION_TTL", "soon")
	t.Setenv("CHAT_RATE_LIMIT", "many")

	cfg := Load()

	assert.Equal(t, 844.0, cfg.CanvasHeight)
	assert.Equal(t, 30*time.Minute, cfg.EditorSessionTTL)
	assert.Equal(t, 20, cfg.ChatRateLimit)
}
