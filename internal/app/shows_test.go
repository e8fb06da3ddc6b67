package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/domain"
	"github.com/bookstub/bms/internal/mocks"
)

type ShowsTestSuite struct {
	suite.Suite
	app       *Application
	showRepo  *mocks.MockShowRepo
	venueRepo *mocks.MockVenueRepo
	movieRepo *mocks.MockMovieRepo
	eventRepo *mocks.MockEventRepo
	holdStore *mocks.MockHoldStore
}

func (s *ShowsTestSuite) SetupTest() {
	s.showRepo = &mocks.MockShowRepo{}
	s.venueRepo = &mocks.MockVenueRepo{}
	s.movieRepo = &mocks.MockMovieRepo{}
	s.eventRepo = &mocks.MockEventRepo{}
	s.holdStore = &mocks.MockHoldStore{}

	s.app = newTestApplication(func(a *Application) {
		a.showRepo = s.showRepo
		a.venueRepo = s.venueRepo
		a.movieRepo = s.movieRepo
		a.eventRepo = s.eventRepo
		a.holdStore = s.holdStore
	})
}

func TestShowsSuite(t *testing.T) {
	suite.Run(t, new(ShowsTestSuite))
}

func (s *ShowsTestSuite) TestGetShowAvailability() {
	showID := uuid.MustParse("b1946ac9-2f72-4c6e-9f5a-9f1e6f7f2a01")

	tests := []struct {
		name           string
		url            string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.AvailabilityResponse
		wantErrMessage string
	}{
		{
			name:       "should fail on a malformed show ID",
			url:        "/v1/shows/not-a-uuid/availability",
			wantStatus: http.StatusNotFound,
		},
		{
			name: "should fail when show does not exist",
			url:  fmt.Sprintf("/v1/shows/%s/availability", showID),
			setupMocks: func() {
				s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
					return nil, domain.ErrRecordNotFound
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "should fail when the database errors",
			url:  fmt.Sprintf("/v1/shows/%s/availability", showID),
			setupMocks: func() {
				s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
					return nil, errors.New("database error")
				}
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "should still answer when the hold store errors",
			url:  fmt.Sprintf("/v1/shows/%s/availability", showID),
			setupMocks: func() {
				s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
					show := testShow(id)
					show.AvailableSeats = []string{"Stalls-A1"}
					show.BookedSeats = []string{"Stalls-A2"}
					return show, nil
				}
				s.holdStore.HeldSeatsFunc = func(ctx context.Context, showID uuid.UUID) ([]string, error) {
					return nil, errors.New("redis error")
				}
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.AvailabilityResponse{
				ShowId:         showID,
				AvailableSeats: []string{"Stalls-A1"},
				BookedSeats:    []string{"Stalls-A2"},
				HeldSeats:      []string{},
			},
		},
		{
			name: "should return the ledger with held seats",
			url:  fmt.Sprintf("/v1/shows/%s/availability", showID),
			setupMocks: func() {
				s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
					show := testShow(id)
					show.AvailableSeats = []string{"Stalls-A1", "Stalls-A3"}
					show.BookedSeats = []string{"Stalls-A2"}
					show.PriceCategories = map[string]decimal.Decimal{
						"Standard": decimal.RequireFromString("12.75"),
					}
					return show, nil
				}
				s.holdStore.HeldSeatsFunc = func(ctx context.Context, showID uuid.UUID) ([]string, error) {
					return []string{"Stalls-A3"}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.AvailabilityResponse{
				ShowId:         showID,
				AvailableSeats: []string{"Stalls-A1", "Stalls-A3"},
				BookedSeats:    []string{"Stalls-A2"},
				HeldSeats:      []string{"Stalls-A3"},
				PriceCategories: map[string]decimal.Decimal{
					"Standard": decimal.RequireFromString("12.75"),
				},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := executeRequest(s.T(), s.app, http.MethodGet, tt.url, nil, nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.AvailabilityResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ShowsTestSuite) TestCreateShow() {
	admin := testAdmin()
	user := testUser()

	movieID := uuid.MustParse("3d1cbd30-21dc-4ef0-b9dc-6e3f5a3f74b4")
	venueID := uuid.MustParse("88a8f4a4-cf49-4b9a-ae57-3e6f5a0e2f19")

	validReq := api.CreateShowRequest{
		ShowType:  "Movie",
		MovieId:   &movieID,
		VenueId:   venueID,
		StartTime: testNow.Add(48 * time.Hour),
		EndTime:   testNow.Add(50 * time.Hour),
		Format:    "IMAX",
		SeatingLayout: map[string]api.SectionLayout{
			"Stalls": {Rows: 2, Cols: 2, Unavailable: []api.GridCell{{Row: 0, Col: 0}}},
		},
		PriceCategories: map[string]decimal.Decimal{
			"Standard": decimal.RequireFromString("12.75"),
		},
	}

	s.Run("should fail for non-admin users", func() {
		s.SetupTest()

		w := executeRequest(s.T(), s.app, http.MethodPost, "/v1/admin/shows", validReq, user)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("should fail when a movie show has no movie ID", func() {
		s.SetupTest()

		req := validReq
		req.MovieId = nil

		w := executeRequest(s.T(), s.app, http.MethodPost, "/v1/admin/shows", req, admin)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("should fail when the referenced movie does not exist", func() {
		s.SetupTest()

		s.movieRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
			return nil, domain.ErrRecordNotFound
		}

		w := executeRequest(s.T(), s.app, http.MethodPost, "/v1/admin/shows", validReq, admin)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("should fail when end time is before start time", func() {
		s.SetupTest()

		req := validReq
		req.EndTime = req.StartTime.Add(-time.Hour)

		w := executeRequest(s.T(), s.app, http.MethodPost, "/v1/admin/shows", req, admin)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("should create the show with seats derived from the layout", func() {
		s.SetupTest()

		s.movieRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
			return &domain.Movie{ID: id, Title: "The Matrix", Duration: 136}, nil
		}
		s.venueRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
			return &domain.Venue{ID: id, Name: "Grand Hall"}, nil
		}
		s.showRepo.CreateFunc = func(ctx context.Context, show *domain.Show) error {
			show.ID = uuid.MustParse("b1946ac9-2f72-4c6e-9f5a-9f1e6f7f2a01")
			show.CreatedAt = testNow
			return nil
		}

		w := executeRequest(s.T(), s.app, http.MethodPost, "/v1/admin/shows", validReq, admin)
		s.Require().Equal(http.StatusCreated, w.Code)

		var resp api.ShowResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

		// The (0,0) cell is excluded, so Stalls-A1 must not exist.
		s.Equal([]string{"Stalls-A2", "Stalls-B1", "Stalls-B2"}, resp.AvailableSeats)
		s.Empty(resp.BookedSeats)
		s.True(resp.IsActive)
	})
}

func (s *ShowsTestSuite) TestUpdateShow() {
	admin := testAdmin()
	showID := uuid.MustParse("b1946ac9-2f72-4c6e-9f5a-9f1e6f7f2a01")
	url := fmt.Sprintf("/v1/admin/shows/%s", showID)

	s.Run("should fail when show does not exist", func() {
		s.SetupTest()

		s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
			return nil, domain.ErrRecordNotFound
		}

		w := executeRequest(s.T(), s.app, http.MethodPatch, url, api.UpdateShowRequest{}, admin)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("should reject a layout change once bookings exist", func() {
		s.SetupTest()

		s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
			return testShow(id), nil
		}
		s.showRepo.BookingCountFunc = func(ctx context.Context, showID uuid.UUID) (int, error) {
			return 3, nil
		}

		req := api.UpdateShowRequest{
			SeatingLayout: map[string]api.SectionLayout{"Stalls": {Rows: 5, Cols: 5}},
		}

		w := executeRequest(s.T(), s.app, http.MethodPatch, url, req, admin)
		s.Equal(http.StatusUnprocessableEntity, w.Code)

		checkErrorResponse(s.T(), w, struct {
			wantStatus     int
			wantErrMessage string
		}{
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: domain.ErrLayoutFrozen.Error(),
		})
	})

	s.Run("should allow a layout change before any bookings", func() {
		s.SetupTest()

		s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
			return testShow(id), nil
		}
		s.showRepo.BookingCountFunc = func(ctx context.Context, showID uuid.UUID) (int, error) {
			return 0, nil
		}
		s.showRepo.UpdateFunc = func(ctx context.Context, show *domain.Show) error {
			return nil
		}

		req := api.UpdateShowRequest{
			SeatingLayout: map[string]api.SectionLayout{"Stalls": {Rows: 1, Cols: 2}},
		}

		w := executeRequest(s.T(), s.app, http.MethodPatch, url, req, admin)
		s.Require().Equal(http.StatusOK, w.Code)

		var resp api.ShowResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal([]string{"Stalls-A1", "Stalls-A2"}, resp.AvailableSeats)
	})

	s.Run("should deactivate the show", func() {
		s.SetupTest()

		s.showRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
			return testShow(id), nil
		}
		s.showRepo.UpdateFunc = func(ctx context.Context, show *domain.Show) error {
			s.False(show.Active)
			return nil
		}

		req := api.UpdateShowRequest{Active: ptr(false)}

		w := executeRequest(s.T(), s.app, http.MethodPatch, url, req, admin)
		s.Require().Equal(http.StatusOK, w.Code)

		var resp api.ShowResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.False(resp.IsActive)
	})
}
