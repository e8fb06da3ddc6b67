package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Catalog entities exist here only as far as the booking core needs them:
// shows reference a venue and a movie or event, and bookings snapshot them.
// Browsing and search live elsewhere.

type Venue struct {
	ID        uuid.UUID
	Name      string
	Address   string
	City      string
	CreatedAt time.Time
}

type Movie struct {
	ID        uuid.UUID
	Title     string
	Poster    string
	Duration  int
	Genre     string
	Language  string
	CreatedAt time.Time
}

type Event struct {
	ID        uuid.UUID
	Name      string
	Poster    string
	Duration  int
	Type      string
	Category  string
	CreatedAt time.Time
}

type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	Update(ctx context.Context, venue *Venue) error
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
}
