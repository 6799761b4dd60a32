// Package main runs the waiting room HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/waitingroom/backend/config"
	"github.com/waitingroom/backend/internal/auth"
	"github.com/waitingroom/backend/internal/challenge"
	"github.com/waitingroom/backend/internal/form"
	"github.com/waitingroom/backend/internal/middleware"
	"github.com/waitingroom/backend/internal/realtime"
	"github.com/waitingroom/backend/internal/registrants"
	"github.com/waitingroom/backend/internal/rooms"
	"github.com/waitingroom/backend/pkg/database"
	"github.com/waitingroom/backend/pkg/queue"
	"github.com/waitingroom/backend/pkg/redis"
	"github.com/waitingroom/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Custom validation tags for gin's binding engine.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := form.RegisterValidations(v); err != nil {
			logger.Fatal("register validations", zap.Error(err))
		}
	}

	tokenValidator := auth.NewValidator(cfg.JWT.Secret)
	verifier := challenge.NewVerifier(cfg.Turnstile.SecretKey, cfg.Turnstile.VerifyURL)

	// Rooms
	roomRepo := rooms.NewRepository(pool)
	roomCache := rooms.NewCache(roomRepo, rdb.Client, logger)
	roomHandler := rooms.NewHandler(roomRepo, roomCache, tokenValidator, logger)

	// Realtime stats feed
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Registrations
	registrantRepo := registrants.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	registrantHandler := registrants.NewHandler(registrantRepo, roomCache, verifier, jobQueue, hub, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: client configuration, room page and registration
	router.GET("/trpc/config", func(c *gin.Context) {
		response.OK(c, gin.H{"turnstileSiteKey": cfg.Turnstile.SiteKey})
	})
	router.GET("/trpc/room.readUnique", roomHandler.ReadUnique)
	router.POST("/trpc/register", registrantHandler.Register)

	// Organizer dashboard (bearer token from the external IdP)
	api := router.Group("/trpc")
	api.Use(middleware.JWT(tokenValidator))
	{
		api.GET("/room.readMany", roomHandler.ReadMany)
		api.POST("/room.create", roomHandler.Create)
		api.POST("/room.update", roomHandler.Update)
		api.POST("/room.publish", roomHandler.Publish)
		api.GET("/room.stats", registrantHandler.Stats)
		api.GET("/room.participants", registrantHandler.Participants)
	}

	// WebSocket stats feed (token in query; no Authorization header on upgrades)
	authFn := func(token string) (string, error) {
		claims, err := tokenValidator.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}
	ownerFn := func(ctx context.Context, roomID uuid.UUID, subject string) bool {
		room, err := roomCache.Get(ctx, roomID)
		return err == nil && room.OwnerID == subject
	}
	router.GET("/ws/rooms/:id/stats", realtime.ServeWs(hub, logger, authFn, ownerFn))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
