package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"

	"github.com/bookstub/bms/internal/clock"
	"github.com/bookstub/bms/internal/domain"
	"github.com/bookstub/bms/internal/events"
	"github.com/bookstub/bms/internal/mailer"
	"github.com/bookstub/bms/internal/repository"
	appvalidator "github.com/bookstub/bms/internal/validator"
	"github.com/bookstub/bms/internal/vcs"
	"github.com/bookstub/bms/migrations"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	mailer    mailer.Mailer
	clock     clock.Clock
	publisher events.Publisher

	showRepo    domain.ShowRepository
	bookingRepo domain.BookingRepository
	venueRepo   domain.VenueRepository
	movieRepo   domain.MovieRepository
	eventRepo   domain.EventRepository
	holdStore   domain.HoldStore
}

type Config struct {
	Port               int
	Env                string
	HoldTTL            time.Duration
	CancellationCutoff time.Duration
	AMQPUrl            string
	OtelCollectorUrl   string
	DB                 DBConfig
	Redis              RedisConfig
	SMTP               SMTPConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.DurationVar(&cfg.HoldTTL, "hold-ttl", domain.DefaultHoldTTL, "Seat hold time-to-live")
	flag.DurationVar(&cfg.CancellationCutoff, "cancellation-cutoff", 3*time.Hour,
		"Minimum lead time before show start for non-admin cancellations")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "BMS <no-reply@bookstub.dev>", "SMTP sender")

	flag.StringVar(&cfg.AMQPUrl, "amqp-url", os.Getenv("AMQP_URL"), "RabbitMQ URL (empty disables event publishing)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"),
		"OpenTelemetry collector URL (empty disables telemetry)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app, err := NewApplication(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.Serve()
}

// NewApplication wires pools, stores and repositories. It migrates the
// database to the latest schema before serving.
func NewApplication(cfg Config) (*Application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(cfg.DB.DSN); err != nil {
		db.Close()
		return nil, err
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	clk := clock.NewSystem()
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)

	return NewApp(cfg, logger, db, redisClient, smtpMailer, clk, publisher), nil
}

// NewApp assembles an Application from externally constructed dependencies.
// Tests use it to substitute fakes for the mailer and publisher.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	m mailer.Mailer,
	clk clock.Clock,
	publisher events.Publisher,
) *Application {
	return &Application{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		validator:   appvalidator.NewValidator(),
		mailer:      m,
		clock:       clk,
		publisher:   publisher,
		showRepo:    repository.NewPostgresShowRepository(db),
		bookingRepo: repository.NewPostgresBookingRepository(db, clk),
		venueRepo:   repository.NewPostgresVenueRepository(db),
		movieRepo:   repository.NewPostgresMovieRepository(db),
		eventRepo:   repository.NewPostgresEventRepository(db),
		holdStore:   repository.NewRedisHoldStore(redisClient, clk),
	}
}

func (app *Application) Close() {
	if err := app.publisher.Close(); err != nil {
		app.logger.Error("failed to close event publisher", "error", err)
	}
	app.redis.Close()
	app.db.Close()
}

func newPublisher(cfg Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPUrl == "" {
		logger.Info("AMQP URL not set, event publishing disabled")
		return events.NoopPublisher{}, nil
	}

	return events.NewAMQPPublisher(cfg.AMQPUrl)
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) Serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(otelchi.Middleware("bms-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.addRequestLogger)
	r.Use(app.authenticate)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.GetHealth)
		r.Get("/shows/{showID}/availability", app.GetShowAvailability)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication)

			r.Post("/shows/{showID}/holds", app.HoldSeatsHandler)
			r.Delete("/shows/{showID}/holds", app.ReleaseHoldHandler)

			r.Post("/bookings", app.CreateBookingHandler)
			r.Get("/bookings", app.GetUserBookingsHandler)
			r.Get("/bookings/{bookingID}", app.GetBookingHandler)
			r.Post("/bookings/{bookingID}/cancel", app.CancelBookingHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication, app.requireAdmin)

			r.Get("/admin/bookings", app.GetAllBookingsHandler)
			r.Post("/admin/shows", app.CreateShowHandler)
			r.Patch("/admin/shows/{showID}", app.UpdateShowHandler)
			r.Post("/admin/venues", app.CreateVenueHandler)
			r.Post("/admin/movies", app.CreateMovieHandler)
			r.Post("/admin/events", app.CreateEventHandler)
		})
	})

	return r
}
