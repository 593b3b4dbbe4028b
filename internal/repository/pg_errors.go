package repository

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// pgErr classifies a pgx error into a StoreError.
func pgErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(op)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch {
		case pgError.Code == pgUniqueViolation:
			return newError(KindConflict, op, err)
		case strings.HasPrefix(pgError.Code, "08"), // connection exception
			strings.HasPrefix(pgError.Code, "57P"): // operator intervention
			return newError(KindUnavailable, op, err)
		default:
			return newError(KindInternal, op, err)
		}
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr),
		errors.As(err, &netErr),
		pgconn.Timeout(err),
		errors.Is(err, context.DeadlineExceeded):
		return newError(KindUnavailable, op, err)
	}
	if strings.Contains(err.Error(), "closed pool") {
		return newError(KindUnavailable, op, err)
	}
	return newError(KindInternal, op, err)
}
