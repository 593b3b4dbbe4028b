package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/sunriseyouth/backend/internal/config"
	"github.com/sunriseyouth/backend/internal/logging"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [up | down [N] | status]

  up        apply pending migrations (default)
  down [N]  revert the newest N applied migrations (default 1)
  status    list migrations and when they were applied

Only the postgres store uses migrations; MongoDB indexes are created by
the server at startup.`)
	os.Exit(2)
}

func main() {
	logging.Setup()
	cfg := config.Load(".env", "../.env")
	if cfg.StoreDriver != repository.DriverPostgres {
		slog.Info("store driver has no migrations, nothing to do", "driver", cfg.StoreDriver)
		return
	}

	cmd, steps := "up", 1
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
	}
	if cmd == "down" && len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			usage()
		}
		steps = n
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	m, err := newMigrator(pool, migrations.FS)
	if err != nil {
		logging.Fatal("load migrations failed", "error", err)
	}

	switch cmd {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			logging.Fatal("migrate up failed", "error", err)
		}
		slog.Info("migrate up done", "applied", n)
	case "down":
		n, err := m.Down(ctx, steps)
		if err != nil {
			logging.Fatal("migrate down failed", "error", err)
		}
		slog.Info("migrate down done", "reverted", n)
	case "status":
		if err := m.Status(ctx); err != nil {
			logging.Fatal("migrate status failed", "error", err)
		}
	default:
		usage()
	}
}
