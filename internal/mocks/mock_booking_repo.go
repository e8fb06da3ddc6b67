package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookstub/bms/internal/domain"
)

type MockBookingRepo struct {
	domain.BookingRepository
	CreateFunc         func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetAllByUserIDFunc func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListFunc           func(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	CancelFunc         func(ctx context.Context, booking *domain.Booking) error
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockBookingRepo) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.GetAllByUserIDFunc(ctx, userID)
}

func (m *MockBookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return m.ListFunc(ctx, filter)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, booking *domain.Booking) error {
	return m.CancelFunc(ctx, booking)
}
