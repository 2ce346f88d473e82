package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"recipebook/internal/config"
	"recipebook/internal/db"
	"recipebook/internal/handler"
	"recipebook/internal/logger"
	"recipebook/internal/repository"
	"recipebook/internal/service"
)

func main() {
	recipesSource := flag.String("recipes", "", "optional JSON array of recipes to insert (file path or http(s) URL)")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting seed")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		fatal(log, "connect database", err)
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		fatal(log, "migrate database", err)
	}
	log.Info("database migrations completed")

	ctx := context.Background()

	profiles := service.NewProfileService(repository.NewUserRepository(gormDB), nil, cfg.ProfileID)
	if err := profiles.Reset(ctx); err != nil {
		fatal(log, "reset profile", err)
	}
	log.Info("default profile written", "id", cfg.ProfileID, "name", service.DefaultProfileName)

	if *recipesSource == "" {
		return
	}

	items, err := loadRecipes(ctx, *recipesSource)
	if err != nil {
		fatal(log, "load recipes", err)
	}

	recipes := service.NewRecipeService(repository.NewRecipeRepository(gormDB), nil)
	created, skipped := 0, 0
	for i, item := range items {
		_, err := recipes.Create(ctx, service.CreateRecipeInput{
			Title:       item.Title,
			Description: item.Description,
			Ingredients: service.PayloadFromJSON(item.Ingredients),
			Steps:       service.PayloadFromJSON(item.Steps),
			Category:    item.Category,
			CreatedBy:   item.CreatedBy,
		})
		if err != nil {
			log.Warn("skipping recipe", "index", i, "title", item.Title, logger.Err(err))
			skipped++
			continue
		}
		created++
	}
	log.Info("seed completed", "created", created, "skipped", skipped)
}

// loadRecipes reads a JSON array of recipes from a local file or an http(s) URL.
func loadRecipes(ctx context.Context, source string) ([]handler.CreateRecipeRequest, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status code %d", source, resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	var items []handler.CreateRecipeRequest
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return items, nil
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Err(err))
	os.Exit(1)
}
