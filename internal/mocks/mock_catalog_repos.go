package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookstub/bms/internal/domain"
)

type MockVenueRepo struct {
	domain.VenueRepository
	CreateFunc  func(ctx context.Context, venue *domain.Venue) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Venue, error)
	UpdateFunc  func(ctx context.Context, venue *domain.Venue) error
}

func (m *MockVenueRepo) Create(ctx context.Context, venue *domain.Venue) error {
	return m.CreateFunc(ctx, venue)
}

func (m *MockVenueRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockVenueRepo) Update(ctx context.Context, venue *domain.Venue) error {
	return m.UpdateFunc(ctx, venue)
}

type MockMovieRepo struct {
	domain.MovieRepository
	CreateFunc  func(ctx context.Context, movie *domain.Movie) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	return m.GetByIDFunc(ctx, id)
}

type MockEventRepo struct {
	domain.EventRepository
	CreateFunc  func(ctx context.Context, event *domain.Event) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	return m.CreateFunc(ctx, event)
}

func (m *MockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return m.GetByIDFunc(ctx, id)
}
