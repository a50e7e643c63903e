package service

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers translate these into
// HTTP status codes; everything else is an internal store error and is
// wrapped, never leaked raw.
var (
	ErrHallNotFound      = errors.New("hall not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrHallUnavailable   = errors.New("hall is not available for booking")
	ErrCapacityExceeded  = errors.New("attendee count exceeds hall capacity")
	ErrSlotOverlap       = errors.New("requested time slot overlaps an existing booking")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrHallHasBookings   = errors.New("hall has active future bookings")
	ErrValidation        = errors.New("validation failed")
	ErrStoreTimeout      = errors.New("store operation timed out")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr surfaces collaborator timeouts as ErrStoreTimeout so callers know
// the whole operation is safe to retry; other store errors pass through.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	}
	return err
}
