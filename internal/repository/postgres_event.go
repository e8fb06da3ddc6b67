package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookstub/bms/internal/domain"
)

type PostgresEventRepository struct {
	db *pgxpool.Pool
}

func NewPostgresEventRepository(db *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{
		db: db,
	}
}

func (p *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (name, poster_url, duration_mins, event_type, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		event.Name,
		event.Poster,
		event.Duration,
		event.Type,
		event.Category,
	).Scan(&event.ID, &event.CreatedAt)
}

func (p *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
		SELECT id, name, poster_url, duration_mins, event_type, category, created_at
		FROM events
		WHERE id = $1
	`

	var event domain.Event

	err := p.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Poster,
		&event.Duration,
		&event.Type,
		&event.Category,
		&event.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &event, nil
}
