// Package api defines the request and response shapes of the booking service.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// SeatConflictResponse names the seats a client must re-select.
type SeatConflictResponse struct {
	Message          string    `json:"message"`
	UnavailableSeats []string  `json:"unavailableSeats"`
	RequestId        string    `json:"requestId,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Env     string `json:"env"`
	Version string `json:"version"`
}

type AvailabilityResponse struct {
	ShowId          uuid.UUID                  `json:"showId"`
	AvailableSeats  []string                   `json:"availableSeats"`
	BookedSeats     []string                   `json:"bookedSeats"`
	HeldSeats       []string                   `json:"heldSeats"`
	PriceCategories map[string]decimal.Decimal `json:"priceCategories"`
}

type HoldSeatsRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_label"`
}

type HoldResponse struct {
	ShowId    uuid.UUID `json:"showId"`
	Seats     []string  `json:"seats"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ReleaseHoldRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_label"`
}

type CreateBookingRequest struct {
	ShowId      uuid.UUID       `json:"showId" validate:"required"`
	Seats       []string        `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_label"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"required"`
	PaymentRef  string          `json:"paymentRef,omitempty"`
}

type Booking struct {
	Id            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	ShowId        uuid.UUID       `json:"showId"`
	UserId        uuid.UUID       `json:"userId"`
	Seats         []string        `json:"seats"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	BookingStatus string          `json:"bookingStatus"`
	ShowDetails   ShowDetails     `json:"showDetails"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ShowDetails is the booking-time snapshot of show, venue and content.
type ShowDetails struct {
	ShowId    uuid.UUID     `json:"showId"`
	ShowType  string        `json:"showType"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Format    string        `json:"format,omitempty"`
	Venue     VenueDetails  `json:"venue"`
	Movie     *MovieDetails `json:"movie,omitempty"`
	Event     *EventDetails `json:"event,omitempty"`
}

type VenueDetails struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
}

type MovieDetails struct {
	Id       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
}

type EventDetails struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type BookingsResponse struct {
	Count    int       `json:"count"`
	Bookings []Booking `json:"bookings"`
}

type SectionLayout struct {
	Rows        int        `json:"rows" validate:"required,min=1,max=26"`
	Cols        int        `json:"cols" validate:"required,min=1,max=99"`
	Category    string     `json:"category,omitempty"`
	Unavailable []GridCell `json:"unavailable,omitempty"`
}

type GridCell struct {
	Row int `json:"row" validate:"min=0"`
	Col int `json:"col" validate:"min=0"`
}

type CreateShowRequest struct {
	ShowType        string                     `json:"showType" validate:"required,oneof=Movie Event"`
	MovieId         *uuid.UUID                 `json:"movieId,omitempty"`
	EventId         *uuid.UUID                 `json:"eventId,omitempty"`
	VenueId         uuid.UUID                  `json:"venueId" validate:"required"`
	StartTime       time.Time                  `json:"startTime" validate:"required"`
	EndTime         time.Time                  `json:"endTime" validate:"required,gtfield=StartTime"`
	Language        string                     `json:"language,omitempty"`
	Format          string                     `json:"format,omitempty" validate:"omitempty,oneof=2D 3D IMAX 'IMAX 3D' 4DX 'Not Applicable'"`
	SeatingLayout   map[string]SectionLayout   `json:"seatingLayout" validate:"required,min=1,dive"`
	PriceCategories map[string]decimal.Decimal `json:"priceCategories" validate:"required,min=1"`
}

type UpdateShowRequest struct {
	StartTime       *time.Time                 `json:"startTime,omitempty"`
	EndTime         *time.Time                 `json:"endTime,omitempty"`
	Language        *string                    `json:"language,omitempty"`
	Format          *string                    `json:"format,omitempty" validate:"omitempty,oneof=2D 3D IMAX 'IMAX 3D' 4DX 'Not Applicable'"`
	VenueId         *uuid.UUID                 `json:"venueId,omitempty"`
	SeatingLayout   map[string]SectionLayout   `json:"seatingLayout,omitempty" validate:"omitempty,min=1,dive"`
	PriceCategories map[string]decimal.Decimal `json:"priceCategories,omitempty" validate:"omitempty,min=1"`
	Active          *bool                      `json:"isActive,omitempty"`
}

type ShowResponse struct {
	Id              uuid.UUID                  `json:"id"`
	ShowType        string                     `json:"showType"`
	MovieId         *uuid.UUID                 `json:"movieId,omitempty"`
	EventId         *uuid.UUID                 `json:"eventId,omitempty"`
	VenueId         uuid.UUID                  `json:"venueId"`
	StartTime       time.Time                  `json:"startTime"`
	EndTime         time.Time                  `json:"endTime"`
	Language        string                     `json:"language,omitempty"`
	Format          string                     `json:"format,omitempty"`
	SeatingLayout   map[string]SectionLayout   `json:"seatingLayout"`
	AvailableSeats  []string                   `json:"availableSeats"`
	BookedSeats     []string                   `json:"bookedSeats"`
	PriceCategories map[string]decimal.Decimal `json:"priceCategories"`
	IsActive        bool                       `json:"isActive"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

type CreateVenueRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=500"`
	City    string `json:"city" validate:"required,max=100"`
}

type VenueResponse struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
}

type CreateMovieRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Poster   string `json:"poster,omitempty" validate:"omitempty,url"`
	Duration int    `json:"duration" validate:"required,min=1"`
	Genre    string `json:"genre,omitempty"`
	Language string `json:"language,omitempty"`
}

type MovieResponse struct {
	Id       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
	Genre    string    `json:"genre,omitempty"`
	Language string    `json:"language,omitempty"`
}

type CreateEventRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Poster   string `json:"poster,omitempty" validate:"omitempty,url"`
	Duration int    `json:"duration" validate:"required,min=1"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
}

type EventResponse struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Poster   string    `json:"poster,omitempty"`
	Duration int       `json:"duration"`
	Type     string    `json:"type,omitempty"`
	Category string    `json:"category,omitempty"`
}
