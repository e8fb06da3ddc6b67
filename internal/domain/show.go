package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShowType string

const (
	ShowTypeMovie ShowType = "Movie"
	ShowTypeEvent ShowType = "Event"
)

// Show carries the authoritative seat ledger for one scheduled show:
// AvailableSeats and BookedSeats always partition SeatLabels.
type Show struct {
	ID              uuid.UUID
	Type            ShowType
	MovieID         *uuid.UUID
	EventID         *uuid.UUID
	VenueID         uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Language        string
	Format          string
	Layout          SeatingLayout
	SeatLabels      []string
	AvailableSeats  []string
	BookedSeats     []string
	PriceCategories map[string]decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Bookable reports whether new bookings or holds may target the show.
func (s *Show) Bookable(now time.Time) bool {
	return s.Active && s.StartTime.After(now)
}

type ShowRepository interface {
	Create(ctx context.Context, show *Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	Update(ctx context.Context, show *Show) error

	// ReserveSeats atomically moves seats from available to booked.
	// All-or-nothing: it returns SeatsUnavailableError when any requested
	// seat is not currently available, leaving the ledger untouched.
	ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string) error

	// ReleaseSeats moves seats from booked back to available. Idempotent:
	// releasing an already-available seat is a no-op.
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string) error

	BookingCount(ctx context.Context, showID uuid.UUID) (int, error)
}
