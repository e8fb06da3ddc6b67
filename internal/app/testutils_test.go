package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/clock"
	"github.com/bookstub/bms/internal/domain"
	"github.com/bookstub/bms/internal/mailer"
	"github.com/bookstub/bms/internal/mocks"
	"github.com/bookstub/bms/internal/validator"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Env:                "test",
			HoldTTL:            domain.DefaultHoldTTL,
			CancellationCutoff: 3 * time.Hour,
		},
		validator:   validator.NewValidator(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:       clock.NewFixed(testNow),
		mailer:      mailer.NewMockMailer(),
		publisher:   &mocks.MockPublisher{},
		showRepo:    &mocks.MockShowRepo{},
		bookingRepo: &mocks.MockBookingRepo{},
		venueRepo:   &mocks.MockVenueRepo{},
		movieRepo:   &mocks.MockMovieRepo{},
		eventRepo:   &mocks.MockEventRepo{},
		holdStore:   &mocks.MockHoldStore{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, app *Application, method, url string, body any, user *domain.User) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")

	if user != nil {
		r.Header.Set("X-User-Id", user.ID.String())
		if user.Email != "" {
			r.Header.Set("X-User-Email", user.Email)
		}
		if user.Admin {
			r.Header.Set("X-User-Admin", "true")
		}
	}

	w := httptest.NewRecorder()
	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	if tt.wantErrMessage == "" {
		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.MustParse("7d9e9e3a-4c62-4a8a-9f11-0bdfd0a8e0a1"),
		Email: "alice@example.com",
	}
}

func testAdmin() *domain.User {
	return &domain.User{
		ID:    uuid.MustParse("f5a1d3ce-96de-44e6-8e6b-3e9a4d6f2b77"),
		Admin: true,
	}
}

func testShow(showID uuid.UUID) *domain.Show {
	layout := domain.SeatingLayout{
		"Stalls": {Rows: 2, Cols: 3},
	}
	labels := layout.SeatLabels()

	movieID := uuid.MustParse("3d1cbd30-21dc-4ef0-b9dc-6e3f5a3f74b4")

	return &domain.Show{
		ID:             showID,
		Type:           domain.ShowTypeMovie,
		MovieID:        &movieID,
		VenueID:        uuid.MustParse("88a8f4a4-cf49-4b9a-ae57-3e6f5a0e2f19"),
		StartTime:      testNow.Add(24 * time.Hour),
		EndTime:        testNow.Add(26 * time.Hour),
		Layout:         layout,
		SeatLabels:     labels,
		AvailableSeats: labels,
		BookedSeats:    []string{},
		Active:         true,
	}
}

func ptr[T any](v T) *T {
	return &v
}
