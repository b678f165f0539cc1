package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusnet/backend/internal/config"
	"campusnet/backend/internal/database"
	"campusnet/backend/internal/events"
	"campusnet/backend/internal/handler"
	"campusnet/backend/internal/hub"
	"campusnet/backend/internal/server"
	"campusnet/backend/internal/service"
	"campusnet/backend/pkg/jwt"
	"campusnet/backend/pkg/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	// Swagger docs
	_ "campusnet/backend/docs"
)

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Campusnet API
// @version         1.0
// @description     Friends, posts and moderation for the campus social network.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...", zap.String("env", cfg.AppEnv))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Error("Sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Database close error", zap.Error(err))
		}
	}()

	// Events go to connected clients, and to NATS when configured
	notifications := hub.NewHub(log.Named("hub"))
	publisher := events.Fanout{notifications}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("campusnet-backend"))
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Drain()
		publisher = append(publisher, events.NewNatsPublisher(nc, cfg.NatsSubject))
		log.Info("Publishing events to NATS", zap.String("subject_prefix", cfg.NatsSubject))
	}

	// Initialize dependencies
	tokens := jwt.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	relations := service.NewRelationshipService(db, publisher, log)
	posts := service.NewPostService(db, publisher, log)
	moderation := service.NewModerationService(db, publisher, log)
	accounts := service.NewAccountService(db, tokens, relations, posts)
	forums := service.NewForumService(db, service.NopSearcher{}, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Deps{
		Log:            log,
		Tokens:         tokens,
		Roles:          accounts,
		Users:          handler.NewUserHandler(accounts, posts),
		Relations:      handler.NewRelationHandler(relations),
		Posts:          handler.NewPostHandler(posts, moderation),
		Admin:          handler.NewAdminHandler(moderation),
		Forums:         handler.NewForumHandler(forums),
		Events:         handler.NewEventHandler(notifications),
		AllowedOrigins: cfg.AllowedOrigins(),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
