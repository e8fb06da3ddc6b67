package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultHoldTTL is how long a seat stays held once a user selects it for
// checkout, unless the same user re-selects it and refreshes the hold.
const DefaultHoldTTL = 10 * time.Minute

// HoldStore manages short-lived per-(show, seat) claims. At most one live
// hold exists per seat; an expired hold is treated as absent on every read,
// whether or not it has been physically removed yet.
type HoldStore interface {
	// TryHold creates or refreshes one hold per seat, owned by userID.
	// All-or-nothing: if any seat is held by a different user it returns
	// SeatsUnavailableError naming those seats and creates no holds.
	// On success it returns the expiry shared by the new holds.
	TryHold(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID, ttl time.Duration) (time.Time, error)

	// Release deletes the caller's holds on the given seats. Holds that
	// are already gone, or owned by someone else, are left untouched.
	Release(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) error

	// HeldByOthers returns the subset of seats with a live hold owned by
	// a user other than userID.
	HeldByOthers(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) ([]string, error)

	// HeldSeats lists all seats of a show with a live hold, pruning index
	// entries whose holds have expired along the way.
	HeldSeats(ctx context.Context, showID uuid.UUID) ([]string, error)
}
