package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"recipebook/docs"
	"recipebook/internal/cache"
	"recipebook/internal/config"
	"recipebook/internal/db"
	"recipebook/internal/handler"
	"recipebook/internal/logger"
	"recipebook/internal/repository"
	"recipebook/internal/router"
	"recipebook/internal/service"
	"recipebook/internal/upload"
)

// @title Recipe Book API
// @version 1.0
// @description Recipe catalogue with image uploads and a single editable profile.
// @host localhost:3000
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database init", logger.Err(err))
		os.Exit(1)
	}
	defer func() { _ = db.Close(gormDB) }()

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Error("reset database", logger.Err(err))
			os.Exit(1)
		}
	}
	if cfg.AutoMigrate || cfg.ResetDB {
		if err := db.Migrate(gormDB); err != nil {
			log.Error("migrate database", logger.Err(err))
			os.Exit(1)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if cacheClient != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, serving without cache", "addr", cfg.RedisAddr, logger.Err(err))
		}
		cancel()
	}

	// Initialize repositories
	recipeRepo := repository.NewRecipeRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize services
	recipeService := service.NewRecipeService(recipeRepo, cacheClient)
	profileService := service.NewProfileService(userRepo, cacheClient, cfg.ProfileID)

	if cfg.SeedProfile {
		if err := profileService.EnsureDefault(context.Background()); err != nil {
			log.Error("seed profile", logger.Err(err))
			os.Exit(1)
		}
	}

	store, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Error("upload dir", "dir", cfg.UploadDir, logger.Err(err))
		os.Exit(1)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Error("database pool", logger.Err(err))
		os.Exit(1)
	}

	// Initialize handlers
	recipeHandler := handler.NewRecipeHandler(recipeService, log)
	profileHandler := handler.NewProfileHandler(profileService, log)
	healthHandler := handler.NewHealthHandler(sqlDB)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, store, recipeHandler, profileHandler, healthHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = stripScheme(cfg.SwaggerHost)
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info("swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server listening", "addr", addr, "driver", cfg.DBDriver, "upload_dir", store.Dir())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", logger.Err(err))
	}
	log.Info("server stopped")
}

func stripScheme(host string) string {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
