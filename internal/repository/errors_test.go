package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStoreError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newError(KindConflict, "qrcodes.insert", errors.New("dup")))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "wrapped: qrcodes.insert: conflict: dup", err.Error())
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := newError(KindInternal, "messages.list", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestPgErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"no rows", pgx.ErrNoRows, KindNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, KindConflict},
		{"connection exception", &pgconn.PgError{Code: "08006"}, KindUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, KindUnavailable},
		{"syntax error", &pgconn.PgError{Code: "42601"}, KindInternal},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"closed pool", errors.New("closed pool"), KindUnavailable},
		{"other", errors.New("weird"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pgErr("op", tt.err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	assert.NoError(t, pgErr("op", nil))
}

func TestMongoErr(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"no documents", mongo.ErrNoDocuments, KindNotFound},
		{"duplicate key", dup, KindConflict},
		{"disconnected", mongo.ErrClientDisconnected, KindUnavailable},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"other", errors.New("weird"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mongoErr("op", tt.err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	assert.NoError(t, mongoErr("op", nil))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "sqlite"})
	assert.ErrorContains(t, err, `unknown store driver "sqlite"`)
}

func TestOpen_MissingURL(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = Open(context.Background(), Options{Driver: DriverMongo})
	assert.ErrorContains(t, err, "MONGODB_URL")
}

type failingDB struct{ err error }

func (f failingDB) Ping(ctx context.Context) error { return f.err }

func TestStore_PingClassifiesUnavailable(t *testing.T) {
	s := NewStore(nil, nil, nil, failingDB{err: errors.New("refused")})

	err := s.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, s.Close(context.Background()))
}
