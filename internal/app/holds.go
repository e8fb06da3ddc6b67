package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/domain"
)

// HoldSeatsHandler places or refreshes short-lived holds on the requested
// seats so the user can complete checkout without losing them to another
// buyer. Holding a seat you already hold extends its expiry.
func (app *Application) HoldSeatsHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	showID, err := app.readUUIDParam(r, "showID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.HoldSeatsRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err.(validator.ValidationErrors))
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showID)
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

	expiresAt, err := app.holdStore.TryHold(r.Context(), showID, req.Seats, user.ID, app.config.HoldTTL)
	if err != nil {
		var unavailableErr domain.SeatsUnavailableError
		switch {
		case errors.As(err, &unavailableErr):
			app.seatConflictResponse(w, r, unavailableErr.Seats)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.HoldResponse{
		ShowId:    showID,
		Seats:     req.Seats,
		ExpiresAt: expiresAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReleaseHoldHandler drops the caller's holds on the given seats. Releasing
// seats the caller does not hold is a no-op, so retries are always safe.
func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r.Context())

	showID, err := app.readUUIDParam(r, "showID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.ReleaseHoldRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err.(validator.ValidationErrors))
		return
	}

	err = app.holdStore.Release(r.Context(), showID, req.Seats, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
