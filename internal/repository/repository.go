package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Options selects and configures the backing store.
type Options struct {
	Driver         string
	PostgresURL    string
	MongoURL       string
	MongoDatabase  string
	ConnectTimeout time.Duration
}

// Store bundles the collections behind one long-lived connection. It is
// opened once at startup and shared read-only by every request; it never
// reconnects on its own.
type Store struct {
	Messages MessageRepository
	QRCodes  QRCodeRepository
	Content  ContentRepository

	db    DB
	close func(ctx context.Context) error
}

// Open connects to the configured store and verifies the connection. A
// failure here is meant to stop the process.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 3 * time.Second
	}
	switch opts.Driver {
	case DriverPostgres, "":
		return OpenPostgres(ctx, opts.PostgresURL, opts.ConnectTimeout)
	case DriverMongo:
		return OpenMongo(ctx, opts.MongoURL, opts.MongoDatabase, opts.ConnectTimeout)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return newError(KindUnavailable, "store.ping", err)
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewPool opens a PostgreSQL pool and checks it with a ping.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// OpenPostgres opens a Store backed by PostgreSQL.
func OpenPostgres(ctx context.Context, url string, timeout time.Duration) (*Store, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres: DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	cfg.ConnConfig.ConnectTimeout = timeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Store{
		Messages: NewPgMessageRepository(pool),
		QRCodes:  NewPgQRCodeRepository(pool),
		Content:  NewPgContentRepository(pool),
		db:       pool,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

// NewStore assembles a Store from already-open repositories.
func NewStore(messages MessageRepository, qrcodes QRCodeRepository, content ContentRepository, db DB) *Store {
	return &Store{Messages: messages, QRCodes: qrcodes, Content: content, db: db}
}
