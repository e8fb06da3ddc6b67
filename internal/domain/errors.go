package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrShowNotBookable    = errors.New("show is not available for booking")
	ErrBookingCancelled   = errors.New("booking is already cancelled")
	ErrCancellationWindow = errors.New("booking cannot be cancelled less than 3 hours before show time")
	ErrNotBookingOwner    = errors.New("not authorized to access this booking")
	ErrLayoutFrozen       = errors.New("cannot change seating layout or venue for shows with existing bookings")
)

// SeatsUnavailableError reports the exact seats that could not be held or
// reserved so the client can re-select.
type SeatsUnavailableError struct {
	Seats []string
}

func (e SeatsUnavailableError) Error() string {
	return fmt.Sprintf("some seats are not available: %s", strings.Join(e.Seats, ", "))
}
