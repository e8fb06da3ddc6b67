package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookstub/bms/internal/domain"
)

type MockShowRepo struct {
	domain.ShowRepository
	CreateFunc       func(ctx context.Context, show *domain.Show) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Show, error)
	UpdateFunc       func(ctx context.Context, show *domain.Show) error
	ReserveSeatsFunc func(ctx context.Context, showID uuid.UUID, seats []string) error
	ReleaseSeatsFunc func(ctx context.Context, showID uuid.UUID, seats []string) error
	BookingCountFunc func(ctx context.Context, showID uuid.UUID) (int, error)
}

func (m *MockShowRepo) Create(ctx context.Context, show *domain.Show) error {
	return m.CreateFunc(ctx, show)
}

func (m *MockShowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockShowRepo) Update(ctx context.Context, show *domain.Show) error {
	return m.UpdateFunc(ctx, show)
}

func (m *MockShowRepo) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	return m.ReserveSeatsFunc(ctx, showID, seats)
}

func (m *MockShowRepo) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	return m.ReleaseSeatsFunc(ctx, showID, seats)
}

func (m *MockShowRepo) BookingCount(ctx context.Context, showID uuid.UUID) (int, error) {
	return m.BookingCountFunc(ctx, showID)
}
