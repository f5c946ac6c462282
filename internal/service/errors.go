package service

import (
	"errors"
	"fmt"

	"relief-exchange/internal/repository"

	"github.com/google/uuid"
)

// --- ERROR DEFINITIONS ---
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrUnprocessable  = errors.New("unprocessable")
	ErrPartialFailure = errors.New("partial failure")
	ErrInvalidInput   = errors.New("invalid input")
)

// PartialFailureError reports a two-aggregate write where one side was
// persisted and undoing it failed. The pair must be reconciled by an operator.
type PartialFailureError struct {
	Op              string
	RequestID       uuid.UUID
	OfferID         uuid.UUID
	Cause           error
	CompensationErr error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: request %s / offer %s left inconsistent: write failed: %v; compensation failed: %v",
		e.Op, e.RequestID, e.OfferID, e.Cause, e.CompensationErr)
}

func (e *PartialFailureError) Unwrap() error { return ErrPartialFailure }

// translate maps repository errors onto service error kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrVersionConflict):
		return fmt.Errorf("%w: %s was modified concurrently", ErrConflict, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}
