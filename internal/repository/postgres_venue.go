package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookstub/bms/internal/domain"
)

type PostgresVenueRepository struct {
	db *pgxpool.Pool
}

func NewPostgresVenueRepository(db *pgxpool.Pool) *PostgresVenueRepository {
	return &PostgresVenueRepository{
		db: db,
	}
}

func (p *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	query := `
		INSERT INTO venues (name, address, city)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return p.db.QueryRow(ctx, query, venue.Name, venue.Address, venue.City).
		Scan(&venue.ID, &venue.CreatedAt)
}

func (p *PostgresVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	query := `
		SELECT id, name, address, city, created_at
		FROM venues
		WHERE id = $1
	`

	var venue domain.Venue

	err := p.db.QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Address,
		&venue.City,
		&venue.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &venue, nil
}

func (p *PostgresVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	query := `
		UPDATE venues
		SET name = $2, address = $3, city = $4
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, venue.ID, venue.Name, venue.Address, venue.City)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
