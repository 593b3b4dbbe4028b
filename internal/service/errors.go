package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sunriseyouth/backend/internal/repository"
)

// Client-visible outcomes that are not schema violations. Store failures
// are passed through as *repository.StoreError.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid id format")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrCodeImmutable   = errors.New("code cannot be changed")
	ErrCodeTaken       = errors.New("code already exists")
	ErrContentRequired = errors.New("content data is required")
)

// validateID rejects identifiers the stores could never have issued.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// notFoundOr maps a store not-found to ErrNotFound and passes anything else
// through unchanged.
func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
