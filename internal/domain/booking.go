package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking is the durable purchase record. Snapshot is captured by value at
// booking time so later edits to the show, venue or content never alter it.
type Booking struct {
	ID            uuid.UUID
	Reference     string
	UserID        uuid.UUID
	ShowID        uuid.UUID
	Seats         []string
	TotalAmount   decimal.Decimal
	PaymentRef    string
	PaymentStatus PaymentStatus
	Status        BookingStatus
	Snapshot      ShowSnapshot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Cancel applies the cancellation state machine in place. Cancelled is
// terminal; a completed payment flips to refunded.
func (b *Booking) Cancel() error {
	if b.Status == BookingCancelled {
		return ErrBookingCancelled
	}

	b.Status = BookingCancelled
	if b.PaymentStatus == PaymentCompleted {
		b.PaymentStatus = PaymentRefunded
	}

	return nil
}

// ShowSnapshot is the denormalized show/venue/content state stored on a
// booking. Exactly one of Movie or Event is set, matching the show type.
type ShowSnapshot struct {
	ShowID    uuid.UUID      `json:"showId"`
	ShowType  ShowType       `json:"showType"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Format    string         `json:"format,omitempty"`
	Venue     VenueSnapshot  `json:"venue"`
	Movie     *MovieSnapshot `json:"movie,omitempty"`
	Event     *EventSnapshot `json:"event,omitempty"`
}

type VenueSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
}

type MovieSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
}

type EventSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
}

// NewBookingReference generates a human-readable booking reference of the
// form BMS-YYYYMMDD-NNNN. Uniqueness is enforced by the store; callers retry
// with a fresh reference on collision.
func NewBookingReference(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	return fmt.Sprintf("BMS-%s-%04d", now.Format("20060102"), n.Int64()+1000)
}

// BookingFilter narrows admin booking listings. Zero values mean "no filter".
type BookingFilter struct {
	ShowID *uuid.UUID
	Status BookingStatus
	From   time.Time
	To     time.Time
}

type BookingRepository interface {
	// Create persists the booking and moves its seats from available to
	// booked in the show's ledger, as one atomic transaction. It returns
	// SeatsUnavailableError when the ledger rejects the reservation; no
	// booking is persisted in that case.
	Create(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]Booking, error)

	// Cancel persists the booking's cancelled statuses and releases its
	// seats back to the show's available pool, as one atomic transaction.
	Cancel(ctx context.Context, booking *Booking) error
}
