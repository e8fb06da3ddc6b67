package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookstub/bms/internal/app"
	"github.com/bookstub/bms/internal/clock"
	"github.com/bookstub/bms/internal/mailer"
	"github.com/bookstub/bms/internal/mocks"
)

type TestApp struct {
	App       *app.Application
	DB        *pgxpool.Pool
	Mailer    *mailer.MockMailer
	Publisher *mocks.MockPublisher
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mockMailer := mailer.NewMockMailer()
	publisher := &mocks.MockPublisher{}

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewApp(cfg, logger, db, redisClient, mockMailer, clock.NewSystem(), publisher)

	return &TestApp{
		App:       application,
		DB:        db,
		Mailer:    mockMailer,
		Publisher: publisher,
	}, nil
}
