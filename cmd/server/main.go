package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/auth"
	"github.com/user/mysea-back/internal/cache"
	"github.com/user/mysea-back/internal/config"
	"github.com/user/mysea-back/internal/database"
	"github.com/user/mysea-back/internal/diary"
	"github.com/user/mysea-back/internal/dives"
	"github.com/user/mysea-back/internal/guide"
	"github.com/user/mysea-back/internal/handlers"
	"github.com/user/mysea-back/internal/logging"
	"github.com/user/mysea-back/internal/middleware"
	"github.com/user/mysea-back/internal/profiles"
	"github.com/user/mysea-back/internal/realtime"
	"github.com/user/mysea-back/internal/species"
	"github.com/user/mysea-back/internal/stickers"
	"github.com/user/mysea-back/internal/storage"
)

const tokenCleanupInterval = time.Hour

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}
	logrus.Info("Database migrations completed")

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Repositories
	authRepo := auth.NewRepository(db.Pool)
	profilesRepo := profiles.NewRepository(db.Pool)
	divesRepo := dives.NewRepository(db.Pool)
	speciesRepo := species.NewRepository(db.Pool)
	stickersRepo := stickers.NewRepository(db.Pool)
	diaryRepo := diary.NewRepository(db.Pool)

	if n, err := stickersRepo.SeedDefaults(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to seed sticker palette")
	} else if n > 0 {
		logrus.WithField("count", n).Info("Sticker palette seeded")
	}

	// S3 Storage
	s3Storage, err := storage.NewS3Storage(storage.Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		CDNURL:          cfg.S3CDNURL,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create S3 storage")
	}
	logrus.WithField("bucket", cfg.S3Bucket).Info("S3 storage initialized")

	// Redis Cache (optional)
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" && cfg.RedisAddr != "disabled" {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logrus.WithError(err).Warn("Redis not available, running without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
			logrus.WithField("addr", cfg.RedisAddr).Info("Redis cache initialized")
		}
	} else {
		logrus.Info("Redis disabled, running without cache")
	}

	// Interfaces must see a true nil when Redis is off.
	var (
		speciesCache species.Cache
		chatLimiter  handlers.RateLimiter
	)
	if redisCache != nil {
		speciesCache = redisCache
		chatLimiter = redisCache
	}

	// Services
	diveService, err := dives.NewService(divesRepo, cfg.DiveCacheSize)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create dive service")
	}
	speciesService := species.NewService(speciesRepo, speciesCache)
	sessions := diary.NewSessions(cfg.EditorSessionLimit, cfg.EditorSessionTTL)

	// Centrifuge realtime node
	rtNode, err := realtime.NewNode(tokenService, realtime.NewProvider(profilesRepo, diveService))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create realtime node")
	}
	rtNode.HandleRPC(realtime.MethodDiaryGesture, realtime.NewGestureHandler(sessions, rtNode).Handle)
	if err := rtNode.Run(); err != nil {
		logrus.WithError(err).Fatal("Failed to start realtime node")
	}
	rtNotifier := realtime.NewNotifier(rtNode)

	// Handlers
	authHandler := handlers.NewAuthHandler(authRepo, profilesRepo, tokenService)
	profileHandler := handlers.NewProfileHandler(profilesRepo)
	divesHandler := handlers.NewDivesHandler(diveService, speciesService, rtNotifier)
	speciesHandler := handlers.NewSpeciesHandler(speciesService)
	stickersHandler := handlers.NewStickersHandler(stickersRepo, redisCache)
	uploadsHandler := handlers.NewUploadsHandler(s3Storage)
	diaryHandler := handlers.NewDiaryHandler(sessions, diaryRepo, diveService, rtNotifier, cfg.CanvasWidth, cfg.CanvasHeight)
	chatHandler := handlers.NewChatHandler(guide.Default(), chatLimiter, cfg.ChatRateLimit)

	// Router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	authMiddleware := middleware.Auth(tokenService)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("GET /api/auth/me", authHandler.Me)

	// Profile
	protect("GET /api/profile", profileHandler.GetProfile)
	protect("PUT /api/profile", profileHandler.UpdateProfile)

	// Dives
	protect("GET /api/dives", divesHandler.ListDives)
	protect("POST /api/dives", divesHandler.CreateDive)
	protect("GET /api/dives/stats", divesHandler.GetStats)
	protect("GET /api/dives/{id}", divesHandler.GetDive)
	protect("PATCH /api/dives/{id}", divesHandler.UpdateDive)
	protect("DELETE /api/dives/{id}", divesHandler.DeleteDive)
	protect("POST /api/dives/{id}/sightings", divesHandler.AddSighting)
	protect("GET /api/dives/{id}/diary", diaryHandler.GetDiveDiary)
	protect("DELETE /api/dives/{id}/diary", diaryHandler.DeleteDiveDiary)

	// Species encyclopedia
	protect("GET /api/species", speciesHandler.ListSpecies)
	protect("GET /api/species/{id}", speciesHandler.GetSpecies)

	// Sticker palette and uploads
	protect("GET /api/diary/stickers", stickersHandler.GetPalette)
	protect("POST /api/diary/stickers", stickersHandler.AddSticker)
	protect("DELETE /api/diary/stickers/{id}", stickersHandler.DeleteSticker)
	protect("POST /api/uploads/photo", uploadsHandler.UploadPhoto)
	protect("DELETE /api/uploads/photo", uploadsHandler.DeletePhoto)
	protect("POST /api/uploads/presign", uploadsHandler.PresignPhoto)

	// Diary editor sessions
	protect("POST /api/diary/sessions", diaryHandler.OpenSession)
	protect("GET /api/diary/sessions/{id}", diaryHandler.GetSession)
	protect("DELETE /api/diary/sessions/{id}", diaryHandler.CloseSession)
	protect("POST /api/diary/sessions/{id}/affordance", diaryHandler.OpenAffordance)
	protect("POST /api/diary/sessions/{id}/elements", diaryHandler.AddElement)
	protect("PATCH /api/diary/sessions/{id}/elements/{elementId}", diaryHandler.UpdateElement)
	protect("DELETE /api/diary/sessions/{id}/elements/{elementId}", diaryHandler.DeleteElement)
	protect("POST /api/diary/sessions/{id}/selection", diaryHandler.SelectElement)
	protect("POST /api/diary/sessions/{id}/gestures", diaryHandler.ApplyGestures)
	protect("POST /api/diary/sessions/{id}/save", diaryHandler.SaveSession)

	// AI guide
	protect("GET /api/chat/greeting", chatHandler.Greeting)
	protect("POST /api/chat/messages", chatHandler.SendMessage)

	// Centrifuge WebSocket endpoint
	mux.Handle("GET /api/ws", rtNode.WebsocketHandler())

	handler := middleware.CORS(cfg.AllowedOrigins)(middleware.Logger(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupRefreshTokens(ctx, authRepo)

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		logrus.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := rtNode.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("Centrifuge shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("Server failed")
		os.Exit(1)
	}

	logrus.Info("Server stopped")
}

func cleanupRefreshTokens(ctx context.Context, repo *auth.Repository) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredRefreshTokens(ctx)
			if err != nil {
				logrus.WithError(err).Warn("Failed to delete expired refresh tokens")
				continue
			}
			if n > 0 {
				logrus.WithField("count", n).Debug("Expired refresh tokens deleted")
			}
		}
	}
}
