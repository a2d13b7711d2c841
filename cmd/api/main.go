package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jobnexus/jobnexus-api/internal/auth"
	"github.com/jobnexus/jobnexus-api/internal/config"
	"github.com/jobnexus/jobnexus-api/internal/handlers"
	"github.com/jobnexus/jobnexus-api/internal/logging"
	"github.com/jobnexus/jobnexus-api/internal/services"
	"github.com/jobnexus/jobnexus-api/internal/store"
	"github.com/jobnexus/jobnexus-api/pkg/linkedin"
)

func main() {
	// 1. Load Environment Variables (.env is optional in deployment)
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	// 2. Document Store Connection
	// A missing DATABASE_URL degrades store-backed endpoints instead of
	// refusing to boot, so the diagnostic endpoints stay reachable.
	var st store.Store
	if cfg.DatabaseURL != "" {
		mongoStore, err := store.NewMongo(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			logger.Warnw("mongo connection failed, store-backed endpoints disabled", "err", err)
		} else {
			logger.Infow("document store connected", "db", cfg.DatabaseName)
			defer mongoStore.Close(ctx)
			st = mongoStore
		}
	} else {
		logger.Warn("DATABASE_URL not set, store-backed endpoints disabled")
	}

	// 3. OAuth State Store (Redis when configured, process memory otherwise)
	var states auth.StateStore
	if cfg.RedisURL != "" {
		redisStates, err := auth.NewRedisStateStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warnw("redis unavailable, using in-memory oauth state store", "err", err)
			states = auth.NewMemoryStateStore()
		} else {
			defer redisStates.Close()
			states = redisStates
		}
	} else {
		states = auth.NewMemoryStateStore()
	}

	// 4. Core Services
	linkedinClient := linkedin.NewClient(linkedin.Config{
		ClientID:     cfg.LinkedIn.ClientID,
		ClientSecret: cfg.LinkedIn.ClientSecret,
		RedirectURI:  cfg.LinkedIn.RedirectURI,
	})
	jobService := services.NewJobService(st, logger)
	profileService := services.NewProfileService(st, states, linkedinClient, cfg.LinkedIn, logger)

	// 5. Handlers
	jobHandler := handlers.NewJobHandler(jobService)
	authHandler := handlers.NewAuthHandler(profileService)
	healthHandler := handlers.NewHealthHandler(st)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	r.GET("/", healthHandler.Root)
	r.GET("/test", healthHandler.TestStore)

	api := r.Group("/api")
	{
		api.GET("/hello", healthHandler.Hello)

		api.GET("/jobs", jobHandler.List)
		api.POST("/jobs", jobHandler.Create)

		api.GET("/auth/linkedin/login", authHandler.Login)
		api.GET("/auth/linkedin/callback", authHandler.Callback)
		api.GET("/users/linkedin/:linkedin_id", authHandler.GetProfile)
	}

	// 8. Serve with graceful shutdown
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		logger.Infow("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "err", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("graceful shutdown completed with error", "err", err)
	} else {
		logger.Info("graceful shutdown completed")
	}
}
