package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookstub/bms/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) Create(ctx context.Context, show *domain.Show) error {
	query := `
		INSERT INTO shows (
			show_type, movie_id, event_id, venue_id, start_time, end_time,
			language, format, seating_layout, seat_labels, available_seats,
			booked_seats, price_categories, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		show.Type,
		show.MovieID,
		show.EventID,
		show.VenueID,
		show.StartTime,
		show.EndTime,
		show.Language,
		show.Format,
		show.Layout,
		show.SeatLabels,
		show.AvailableSeats,
		show.BookedSeats,
		show.PriceCategories,
		show.Active,
	).Scan(&show.ID, &show.CreatedAt, &show.UpdatedAt)
}

func (p *PostgresShowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
	return getShow(ctx, p.db, id)
}

func getShow(ctx context.Context, q querier, id uuid.UUID) (*domain.Show, error) {
	query := `
		SELECT id, show_type, movie_id, event_id, venue_id, start_time,
			end_time, language, format, seating_layout, seat_labels,
			available_seats, booked_seats, price_categories, is_active,
			created_at, updated_at
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := q.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.Type,
		&show.MovieID,
		&show.EventID,
		&show.VenueID,
		&show.StartTime,
		&show.EndTime,
		&show.Language,
		&show.Format,
		&show.Layout,
		&show.SeatLabels,
		&show.AvailableSeats,
		&show.BookedSeats,
		&show.PriceCategories,
		&show.Active,
		&show.CreatedAt,
		&show.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) Update(ctx context.Context, show *domain.Show) error {
	query := `
		UPDATE shows
		SET venue_id = $2, start_time = $3, end_time = $4, language = $5,
			format = $6, seating_layout = $7, seat_labels = $8,
			available_seats = $9, booked_seats = $10, price_categories = $11,
			is_active = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		show.ID,
		show.VenueID,
		show.StartTime,
		show.EndTime,
		show.Language,
		show.Format,
		show.Layout,
		show.SeatLabels,
		show.AvailableSeats,
		show.BookedSeats,
		show.PriceCategories,
		show.Active,
	).Scan(&show.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	return nil
}

func (p *PostgresShowRepository) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	return reserveSeats(ctx, p.db, showID, seats)
}

// reserveSeats is the authoritative ledger transition: one guarded UPDATE
// moves the whole batch from available to booked, or nothing at all.
func reserveSeats(ctx context.Context, q querier, showID uuid.UUID, seats []string) error {
	query := `
		UPDATE shows
		SET available_seats = ARRAY(
				SELECT seat FROM unnest(available_seats) AS seat
				WHERE seat <> ALL($2::text[])
			),
			booked_seats = booked_seats || $2::text[],
			updated_at = now()
		WHERE id = $1 AND available_seats @> $2::text[]
	`

	tag, err := q.Exec(ctx, query, showID, seats)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var available []string

		err := q.QueryRow(ctx, `SELECT available_seats FROM shows WHERE id = $1`, showID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		// The diagnostic SELECT runs outside the failed UPDATE, so a
		// concurrent cancellation may have freed the seats in between.
		unavailable := subtract(seats, available)
		if len(unavailable) == 0 {
			return domain.ErrEditConflict
		}

		return domain.SeatsUnavailableError{Seats: unavailable}
	}

	return nil
}

func (p *PostgresShowRepository) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	return releaseSeats(ctx, p.db, showID, seats)
}

// releaseSeats moves seats back to the available pool. Seats already
// available are skipped and labels outside the show's universe are never
// added, so repeated calls converge on the same state.
func releaseSeats(ctx context.Context, q querier, showID uuid.UUID, seats []string) error {
	query := `
		UPDATE shows
		SET booked_seats = ARRAY(
				SELECT seat FROM unnest(booked_seats) AS seat
				WHERE seat <> ALL($2::text[])
			),
			available_seats = available_seats || ARRAY(
				SELECT seat FROM unnest($2::text[]) AS seat
				WHERE seat = ANY(seat_labels)
				  AND seat <> ALL(available_seats)
			),
			updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, showID, seats)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresShowRepository) BookingCount(ctx context.Context, showID uuid.UUID) (int, error) {
	var count int

	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE show_id = $1`, showID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func subtract(seats, from []string) []string {
	present := make(map[string]bool, len(from))
	for _, seat := range from {
		present[seat] = true
	}

	missing := make([]string, 0, len(seats))
	for _, seat := range seats {
		if !present[seat] {
			missing = append(missing, seat)
		}
	}

	return missing
}
