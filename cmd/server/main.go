package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/apexgazer/internal/api/handlers"
	"github.com/langchou/apexgazer/internal/api/livetiming"
	"github.com/langchou/apexgazer/internal/config"
	"github.com/langchou/apexgazer/internal/repository"
	"github.com/langchou/apexgazer/internal/service"
	"github.com/langchou/apexgazer/pkg/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting apexgazer", zap.String("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry cache store
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	sessionRepo := repository.NewSessionRepository(db)
	lapRepo := repository.NewLapRepository(db)
	sampleRepo := repository.NewSampleRepository(db)

	// Timing data source
	timingClient := livetiming.NewClient(cfg.TimingAPIHost, cfg.TimingAPITimeout)

	// WebSocket hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// Analysis service; job phase transitions go out over the hub.
	jobs := service.NewJobManager(func(status service.JobStatus) {
		wsHub.BroadcastJobUpdate(status)
	})
	analysisService := service.NewAnalysisService(
		logger,
		timingClient,
		sessionRepo,
		lapRepo,
		sampleRepo,
		jobs,
	)

	wsHub.SetInitDataProvider(func() *ws.InitData {
		sessions, err := analysisService.CachedSessions(context.Background())
		if err != nil {
			logger.Warn("Failed to snapshot cached sessions", zap.Error(err))
			sessions = nil
		}
		return &ws.InitData{
			Sessions: sessions,
			Jobs:     jobs.Statuses(),
		}
	})

	handler := handlers.NewHandler(logger, analysisService, wsHub)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
