package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/domain"
	"github.com/bookstub/bms/internal/events"
)

// CreateBookingHandler turns held (or simply still-available) seats into a
// durable booking. The ledger update inside the repository is the single
// point of truth for seat allocation; everything before it is a fast-fail
// courtesy check.
func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	var req api.CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err.(validator.ValidationErrors))
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), req.ShowId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !show.Bookable(app.clock.Now()) {
		app.businessRuleResponse(w, r, domain.ErrShowNotBookable.Error())
		return
	}

	if missing := show.Layout.Contains(req.Seats); len(missing) > 0 {
		app.seatsOutsideLayoutResponse(w, r, missing)
		return
	}

	heldByOthers, err := app.holdStore.HeldByOthers(r.Context(), req.ShowId, req.Seats, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if len(heldByOthers) > 0 {
		app.seatConflictResponse(w, r, heldByOthers)
		return
	}

	snapshot, err := app.buildShowSnapshot(r.Context(), show)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		UserID:      user.ID,
		ShowID:      show.ID,
		Seats:       req.Seats,
		TotalAmount: req.TotalAmount,
		PaymentRef:  req.PaymentRef,
		Snapshot:    snapshot,
	}

	if req.PaymentRef != "" {
		booking.PaymentStatus = domain.PaymentCompleted
		booking.Status = domain.BookingConfirmed
	} else {
		booking.PaymentStatus = domain.PaymentPending
		booking.Status = domain.BookingPending
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		var unavailableErr domain.SeatsUnavailableError
		switch {
		case errors.As(err, &unavailableErr):
			app.seatConflictResponse(w, r, unavailableErr.Seats)
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// The booking owns the seats now, the holds are spent. Leaving a
	// stale hold behind only delays availability reads, never blocks a
	// sale, so a failed release is logged and ignored.
	err = app.holdStore.Release(r.Context(), show.ID, booking.Seats, user.ID)
	if err != nil {
		app.logError(r, fmt.Errorf("releasing holds after booking %s: %w", booking.Reference, err))
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := app.publisher.BookingCreated(ctx, bookingEvent(booking))
		if err != nil {
			app.logger.Error("failed to publish booking created event",
				"booking_id", booking.ID, "error", err)
		}
	})

	if user.Email != "" && booking.Status == domain.BookingConfirmed {
		app.background(func() {
			err := app.mailer.Send(user.Email, "booking_confirmation.tmpl", confirmationData(booking))
			if err != nil {
				app.logger.Error("failed to send booking confirmation email",
					"booking_id", booking.ID, "error", err)
			}
		})
	}

	err = app.writeJSON(w, http.StatusCreated, api.BookingResponse{Booking: toAPIBooking(booking)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBookingHandler cancels a booking and returns its seats to the
// available pool. Owners are bound by the cancellation cutoff before show
// start; admins may cancel at any time.
func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	bookingID, err := app.readUUIDParam(r, "bookingID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	booking, err := app.bookingRepo.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !user.CanManage(booking) {
		app.forbiddenResponse(w, r)
		return
	}

	if !user.Admin {
		cutoff := booking.Snapshot.StartTime.Add(-app.config.CancellationCutoff)
		if app.clock.Now().After(cutoff) {
			app.businessRuleResponse(w, r, domain.ErrCancellationWindow.Error())
			return
		}
	}

	err = booking.Cancel()
	if err != nil {
		app.businessRuleResponse(w, r, err.Error())
		return
	}

	err = app.bookingRepo.Cancel(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := app.publisher.BookingCancelled(ctx, bookingEvent(booking))
		if err != nil {
			app.logger.Error("failed to publish booking cancelled event",
				"booking_id", booking.ID, "error", err)
		}
	})

	err = app.writeJSON(w, http.StatusOK, api.BookingResponse{Booking: toAPIBooking(booking)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	bookingID, err := app.readUUIDParam(r, "bookingID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	booking, err := app.bookingRepo.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !user.CanManage(booking) {
		app.forbiddenResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.BookingResponse{Booking: toAPIBooking(booking)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	bookings, err := app.bookingRepo.GetAllByUserID(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingsResponse(bookings), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAllBookingsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBookingFilter(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookings, err := app.bookingRepo.List(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingsResponse(bookings), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func parseBookingFilter(r *http.Request) (domain.BookingFilter, error) {
	var filter domain.BookingFilter

	qs := r.URL.Query()

	if raw := qs.Get("showId"); raw != "" {
		showID, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid showId query parameter")
		}
		filter.ShowID = &showID
	}

	if raw := qs.Get("status"); raw != "" {
		switch status := domain.BookingStatus(raw); status {
		case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled:
			filter.Status = status
		default:
			return filter, errors.New("invalid status query parameter")
		}
	}

	if raw := qs.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid from query parameter, expected RFC 3339")
		}
		filter.From = from
	}

	if raw := qs.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid to query parameter, expected RFC 3339")
		}
		filter.To = to
	}

	return filter, nil
}

func (app *Application) buildShowSnapshot(ctx context.Context, show *domain.Show) (domain.ShowSnapshot, error) {
	venue, err := app.venueRepo.GetByID(ctx, show.VenueID)
	if err != nil {
		return domain.ShowSnapshot{}, fmt.Errorf("loading venue for snapshot: %w", err)
	}

	snapshot := domain.ShowSnapshot{
		ShowID:    show.ID,
		ShowType:  show.Type,
		StartTime: show.StartTime,
		EndTime:   show.EndTime,
		Format:    show.Format,
		Venue: domain.VenueSnapshot{
			ID:      venue.ID,
			Name:    venue.Name,
			Address: venue.Address,
			City:    venue.City,
		},
	}

	switch show.Type {
	case domain.ShowTypeMovie:
		movie, err := app.movieRepo.GetByID(ctx, *show.MovieID)
		if err != nil {
			return domain.ShowSnapshot{}, fmt.Errorf("loading movie for snapshot: %w", err)
		}
		snapshot.Movie = &domain.MovieSnapshot{
			ID:       movie.ID,
			Title:    movie.Title,
			Poster:   movie.Poster,
			Duration: movie.Duration,
		}
	case domain.ShowTypeEvent:
		event, err := app.eventRepo.GetByID(ctx, *show.EventID)
		if err != nil {
			return domain.ShowSnapshot{}, fmt.Errorf("loading event for snapshot: %w", err)
		}
		snapshot.Event = &domain.EventSnapshot{
			ID:       event.ID,
			Name:     event.Name,
			Poster:   event.Poster,
			Duration: event.Duration,
		}
	}

	return snapshot, nil
}

func bookingEvent(booking *domain.Booking) events.BookingEvent {
	return events.BookingEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		UserID:      booking.UserID,
		ShowID:      booking.ShowID,
		Seats:       booking.Seats,
		TotalAmount: booking.TotalAmount.String(),
		Status:      string(booking.Status),
		OccurredAt:  booking.UpdatedAt,
	}
}

func confirmationData(booking *domain.Booking) map[string]any {
	return map[string]any{
		"Reference":   booking.Reference,
		"StartTime":   booking.Snapshot.StartTime,
		"VenueName":   booking.Snapshot.Venue.Name,
		"Seats":       booking.Seats,
		"TotalAmount": booking.TotalAmount.String(),
	}
}

func toAPIBooking(booking *domain.Booking) api.Booking {
	details := api.ShowDetails{
		ShowId:    booking.Snapshot.ShowID,
		ShowType:  string(booking.Snapshot.ShowType),
		StartTime: booking.Snapshot.StartTime,
		EndTime:   booking.Snapshot.EndTime,
		Format:    booking.Snapshot.Format,
		Venue: api.VenueDetails{
			Id:      booking.Snapshot.Venue.ID,
			Name:    booking.Snapshot.Venue.Name,
			Address: booking.Snapshot.Venue.Address,
			City:    booking.Snapshot.Venue.City,
		},
	}

	if movie := booking.Snapshot.Movie; movie != nil {
		details.Movie = &api.MovieDetails{
			Id:       movie.ID,
			Title:    movie.Title,
			Poster:   movie.Poster,
			Duration: movie.Duration,
		}
	}

	if event := booking.Snapshot.Event; event != nil {
		details.Event = &api.EventDetails{
			Id:       event.ID,
			Name:     event.Name,
			Poster:   event.Poster,
			Duration: event.Duration,
		}
	}

	return api.Booking{
		Id:            booking.ID,
		Reference:     booking.Reference,
		ShowId:        booking.ShowID,
		UserId:        booking.UserID,
		Seats:         booking.Seats,
		TotalAmount:   booking.TotalAmount,
		PaymentStatus: string(booking.PaymentStatus),
		BookingStatus: string(booking.Status),
		ShowDetails:   details,
		CreatedAt:     booking.CreatedAt,
	}
}

func toBookingsResponse(bookings []domain.Booking) api.BookingsResponse {
	resp := api.BookingsResponse{
		Count:    len(bookings),
		Bookings: make([]api.Booking, 0, len(bookings)),
	}

	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toAPIBooking(&bookings[i]))
	}

	return resp
}
