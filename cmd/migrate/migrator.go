package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

type migration struct {
	name string
	up   string
	down string
}

// loadMigrations pairs the up and down files in fsys, ordered by name.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byName := map[string]*migration{}
	get := func(name string) *migration {
		if m, ok := byName[name]; ok {
			return m
		}
		m := &migration{name: name}
		byName[name] = m
		return m
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch file := e.Name(); {
		case strings.HasSuffix(file, upSuffix):
			get(strings.TrimSuffix(file, upSuffix)).up = file
		case strings.HasSuffix(file, downSuffix):
			get(strings.TrimSuffix(file, downSuffix)).down = file
		}
	}

	out := make([]migration, 0, len(byName))
	for _, m := range byName {
		if m.up == "" {
			return nil, fmt.Errorf("migration %s has a down file but no up file", m.name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// pending returns the migrations not yet in applied, in apply order.
func pending(all []migration, applied map[string]bool) []migration {
	var out []migration
	for _, m := range all {
		if !applied[m.name] {
			out = append(out, m)
		}
	}
	return out
}

// rollbackPlan returns up to steps applied migrations, newest first.
// Applied names with no matching file are an error; they cannot be reverted.
func rollbackPlan(all []migration, applied map[string]bool, steps int) ([]migration, error) {
	known := make(map[string]bool, len(all))
	for _, m := range all {
		known[m.name] = true
	}
	for name := range applied {
		if !known[name] {
			return nil, fmt.Errorf("applied migration %s has no file", name)
		}
	}

	var out []migration
	for i := len(all) - 1; i >= 0 && len(out) < steps; i-- {
		m := all[i]
		if !applied[m.name] {
			continue
		}
		if m.down == "" {
			return nil, fmt.Errorf("migration %s cannot be reverted: no %s file", m.name, downSuffix)
		}
		out = append(out, m)
	}
	return out, nil
}

type migrator struct {
	pool       *pgxpool.Pool
	fsys       fs.FS
	migrations []migration
}

func newMigrator(pool *pgxpool.Pool, fsys fs.FS) (*migrator, error) {
	all, err := loadMigrations(fsys)
	if err != nil {
		return nil, err
	}
	return &migrator{pool: pool, fsys: fsys, migrations: all}, nil
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (m *migrator) applied(ctx context.Context) (map[string]time.Time, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	rows, err := m.pool.Query(ctx, "SELECT name, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := map[string]time.Time{}
	for rows.Next() {
		var name string
		var at time.Time
		if err := rows.Scan(&name, &at); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		out[name] = at
	}
	return out, rows.Err()
}

func appliedSet(applied map[string]time.Time) map[string]bool {
	set := make(map[string]bool, len(applied))
	for name := range applied {
		set[name] = true
	}
	return set
}

// run executes file and records the result in one transaction.
func (m *migrator) run(ctx context.Context, file, record string, args ...any) error {
	sql, err := fs.ReadFile(m.fsys, file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("exec %s: %w", file, err)
		}
		if _, err := tx.Exec(ctx, record, args...); err != nil {
			return fmt.Errorf("record %s: %w", file, err)
		}
		return nil
	})
}

// Up applies every pending migration and returns how many ran.
func (m *migrator) Up(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}
	todo := pending(m.migrations, appliedSet(applied))
	for _, mig := range todo {
		if err := m.run(ctx, mig.up, "INSERT INTO schema_migrations (name) VALUES ($1)", mig.name); err != nil {
			return 0, err
		}
		slog.Info("migration applied", "migration", mig.name)
	}
	return len(todo), nil
}

// Down reverts the newest steps applied migrations and returns how many ran.
func (m *migrator) Down(ctx context.Context, steps int) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}
	todo, err := rollbackPlan(m.migrations, appliedSet(applied), steps)
	if err != nil {
		return 0, err
	}
	for _, mig := range todo {
		if err := m.run(ctx, mig.down, "DELETE FROM schema_migrations WHERE name = $1", mig.name); err != nil {
			return 0, err
		}
		slog.Info("migration reverted", "migration", mig.name)
	}
	return len(todo), nil
}

// Status logs every known migration with its apply time.
func (m *migrator) Status(ctx context.Context) error {
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mig := range m.migrations {
		if at, ok := applied[mig.name]; ok {
			slog.Info("migration", "name", mig.name, "applied_at", at.UTC().Format(time.RFC3339))
		} else {
			slog.Info("migration", "name", mig.name, "pending", true)
		}
	}
	return nil
}
