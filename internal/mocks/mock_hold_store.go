package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookstub/bms/internal/domain"
)

type MockHoldStore struct {
	domain.HoldStore
	TryHoldFunc      func(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID, ttl time.Duration) (time.Time, error)
	ReleaseFunc      func(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) error
	HeldByOthersFunc func(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) ([]string, error)
	HeldSeatsFunc    func(ctx context.Context, showID uuid.UUID) ([]string, error)
}

func (m *MockHoldStore) TryHold(
	ctx context.Context,
	showID uuid.UUID,
	seats []string,
	userID uuid.UUID,
	ttl time.Duration) (time.Time, error) {

	return m.TryHoldFunc(ctx, showID, seats, userID, ttl)
}

func (m *MockHoldStore) Release(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) error {
	return m.ReleaseFunc(ctx, showID, seats, userID)
}

func (m *MockHoldStore) HeldByOthers(
	ctx context.Context,
	showID uuid.UUID,
	seats []string,
	userID uuid.UUID) ([]string, error) {

	return m.HeldByOthersFunc(ctx, showID, seats, userID)
}

func (m *MockHoldStore) HeldSeats(ctx context.Context, showID uuid.UUID) ([]string, error) {
	return m.HeldSeatsFunc(ctx, showID)
}
