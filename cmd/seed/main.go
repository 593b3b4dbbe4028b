package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/sunriseyouth/backend/internal/config"
	"github.com/sunriseyouth/backend/internal/logging"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/service"
)

func main() {
	file := flag.String("file", "data/landing.json", "landing page content to load")
	flag.Parse()

	logging.Setup()
	cfg := config.Load(".env", "../.env")

	raw, err := os.ReadFile(*file)
	if err != nil {
		logging.Fatal("read content file failed", "file", *file, "error", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		logging.Fatal("content file is not a JSON object", "file", *file, "error", err)
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, repository.Options{
		Driver:         cfg.StoreDriver,
		PostgresURL:    cfg.DatabaseURL,
		MongoURL:       cfg.MongoURL,
		MongoDatabase:  cfg.MongoDatabase,
		ConnectTimeout: cfg.StoreConnectTimeout,
	})
	if err != nil {
		logging.Fatal("failed to connect to store", "driver", cfg.StoreDriver, "error", err)
	}
	defer store.Close(ctx)

	res, err := service.NewContentService(store.Content).Replace(ctx, data)
	if err != nil {
		_ = store.Close(ctx)
		logging.Fatal("seed failed", "error", err)
	}
	slog.Info("seed completed", "file", *file, "created", res.Upserted == 1, "keys", len(data))
}
