package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bookstub/bms/internal/clock"
	"github.com/bookstub/bms/internal/domain"
)

// maxReferenceAttempts bounds the retry loop for booking reference
// collisions. Two collisions in a row are already vanishingly unlikely.
const maxReferenceAttempts = 5

type PostgresBookingRepository struct {
	db    *pgxpool.Pool
	clock clock.Clock
}

func NewPostgresBookingRepository(db *pgxpool.Pool, clock clock.Clock) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db:    db,
		clock: clock,
	}
}

// Create reserves the booking's seats in the show ledger and inserts the
// booking row in one transaction, so no partially-applied booking is ever
// visible. A duplicate booking reference aborts the transaction and the whole
// sequence is retried with a fresh reference.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		booking.Reference = domain.NewBookingReference(p.clock.Now().UTC())

		err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
			if err := reserveSeats(ctx, tx, booking.ShowID, booking.Seats); err != nil {
				return err
			}

			return insertBooking(ctx, tx, booking)
		})

		if isUniqueViolation(err, "bookings_reference_key") {
			continue
		}

		return err
	}

	return fmt.Errorf("could not generate a unique booking reference after %d attempts", maxReferenceAttempts)
}

func insertBooking(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			reference, user_id, show_id, seats, total_amount, payment_ref,
			payment_status, booking_status, show_details
		)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	return tx.QueryRow(
		ctx,
		query,
		booking.Reference,
		booking.UserID,
		booking.ShowID,
		booking.Seats,
		booking.TotalAmount.String(),
		booking.PaymentRef,
		booking.PaymentStatus,
		booking.Status,
		booking.Snapshot,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == constraint
}

const bookingColumns = `
	id, reference, user_id, show_id, seats, total_amount::text, payment_ref,
	payment_status, booking_status, show_details, created_at, updated_at
`

func scanBooking(row pgx.Row, booking *domain.Booking) error {
	var amount string

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.ShowID,
		&booking.Seats,
		&amount,
		&booking.PaymentRef,
		&booking.PaymentStatus,
		&booking.Status,
		&booking.Snapshot,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return err
	}

	booking.TotalAmount, err = decimal.NewFromString(amount)

	return err
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking domain.Booking

	err := scanBooking(p.db.QueryRow(ctx, query, id), &booking)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (p *PostgresBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}

	if filter.ShowID != nil {
		args = append(args, *filter.ShowID)
		query += fmt.Sprintf(" AND show_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND booking_status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// Cancel persists the cancelled statuses and returns the booking's seats to
// the available pool in one transaction. A booking that is already cancelled
// reports an edit conflict so a concurrent second cancel can never
// double-refund.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET booking_status = $2, payment_status = $3, updated_at = now()
			WHERE id = $1 AND booking_status <> 'Cancelled'
			RETURNING updated_at
		`

		err := tx.QueryRow(ctx, query, booking.ID, booking.Status, booking.PaymentStatus).Scan(&booking.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEditConflict
			}

			return err
		}

		return releaseSeats(ctx, tx, booking.ShowID, booking.Seats)
	})
}
