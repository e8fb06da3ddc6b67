package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/domain"
)

func (app *Application) GetShowAvailability(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readUUIDParam(r, "showID")
	if err != nil {
		app.notFoundResponse(w, r)
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

	// Held seats are advisory only. A hold store hiccup should not take
	// availability reads down with it.
	heldSeats, err := app.holdStore.HeldSeats(r.Context(), showID)
	if err != nil {
		app.logError(r, err)
		heldSeats = []string{}
	}

	resp := api.AvailabilityResponse{
		ShowId:          show.ID,
		AvailableSeats:  show.AvailableSeats,
		BookedSeats:     show.BookedSeats,
		HeldSeats:       heldSeats,
		PriceCategories: show.PriceCategories,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateShowHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShowRequest

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

	showType := domain.ShowType(req.ShowType)

	switch showType {
	case domain.ShowTypeMovie:
		if req.MovieId == nil {
			app.businessRuleResponse(w, r, "movieId is required for movie shows")
			return
		}
		if _, err := app.movieRepo.GetByID(r.Context(), *req.MovieId); err != nil {
			app.catalogLookupError(w, r, err, "movie")
			return
		}
	case domain.ShowTypeEvent:
		if req.EventId == nil {
			app.businessRuleResponse(w, r, "eventId is required for event shows")
			return
		}
		if _, err := app.eventRepo.GetByID(r.Context(), *req.EventId); err != nil {
			app.catalogLookupError(w, r, err, "event")
			return
		}
	}

	if _, err := app.venueRepo.GetByID(r.Context(), req.VenueId); err != nil {
		app.catalogLookupError(w, r, err, "venue")
		return
	}

	layout := layoutFromAPI(req.SeatingLayout)
	seatLabels := layout.SeatLabels()
	if len(seatLabels) == 0 {
		app.businessRuleResponse(w, r, "seating layout must contain at least one available seat")
		return
	}

	show := &domain.Show{
		Type:            showType,
		MovieID:         req.MovieId,
		EventID:         req.EventId,
		VenueID:         req.VenueId,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Language:        req.Language,
		Format:          req.Format,
		Layout:          layout,
		SeatLabels:      seatLabels,
		AvailableSeats:  seatLabels,
		BookedSeats:     []string{},
		PriceCategories: req.PriceCategories,
		Active:          true,
	}

	err = app.showRepo.Create(r.Context(), show)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateShowHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readUUIDParam(r, "showID")
	if err != nil {
		app.notFoundResponse(w, r)
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

	var req api.UpdateShowRequest

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

	// The seat universe and venue are frozen once a show has bookings;
	// changing either would orphan seats that customers already paid for.
	if req.SeatingLayout != nil || req.VenueId != nil {
		count, err := app.showRepo.BookingCount(r.Context(), showID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if count > 0 {
			app.businessRuleResponse(w, r, domain.ErrLayoutFrozen.Error())
			return
		}
	}

	if req.StartTime != nil {
		show.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		show.EndTime = *req.EndTime
	}
	if !show.EndTime.After(show.StartTime) {
		app.businessRuleResponse(w, r, "endTime must be after startTime")
		return
	}
	if req.Language != nil {
		show.Language = *req.Language
	}
	if req.Format != nil {
		show.Format = *req.Format
	}
	if req.VenueId != nil {
		if _, err := app.venueRepo.GetByID(r.Context(), *req.VenueId); err != nil {
			app.catalogLookupError(w, r, err, "venue")
			return
		}
		show.VenueID = *req.VenueId
	}
	if req.SeatingLayout != nil {
		layout := layoutFromAPI(req.SeatingLayout)
		seatLabels := layout.SeatLabels()
		if len(seatLabels) == 0 {
			app.businessRuleResponse(w, r, "seating layout must contain at least one available seat")
			return
		}

		show.Layout = layout
		show.SeatLabels = seatLabels
		show.AvailableSeats = seatLabels
		show.BookedSeats = []string{}
	}
	if req.PriceCategories != nil {
		show.PriceCategories = req.PriceCategories
	}
	if req.Active != nil {
		show.Active = *req.Active
	}

	err = app.showRepo.Update(r.Context(), show)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) catalogLookupError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.businessRuleResponse(w, r, fmt.Sprintf("the referenced %s does not exist", entity))
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) seatsOutsideLayoutResponse(w http.ResponseWriter, r *http.Request, missing []string) {
	app.businessRuleResponse(w, r, fmt.Sprintf("seats do not exist in this show's layout: %s", strings.Join(missing, ", ")))
}

func layoutFromAPI(sections map[string]api.SectionLayout) domain.SeatingLayout {
	layout := make(domain.SeatingLayout, len(sections))

	for name, section := range sections {
		cells := make([]domain.GridCell, 0, len(section.Unavailable))
		for _, cell := range section.Unavailable {
			cells = append(cells, domain.GridCell{Row: cell.Row, Col: cell.Col})
		}

		layout[name] = domain.SectionLayout{
			Rows:        section.Rows,
			Cols:        section.Cols,
			Category:    section.Category,
			Unavailable: cells,
		}
	}

	return layout
}

func layoutToAPI(layout domain.SeatingLayout) map[string]api.SectionLayout {
	sections := make(map[string]api.SectionLayout, len(layout))

	for name, section := range layout {
		cells := make([]api.GridCell, 0, len(section.Unavailable))
		for _, cell := range section.Unavailable {
			cells = append(cells, api.GridCell{Row: cell.Row, Col: cell.Col})
		}

		sections[name] = api.SectionLayout{
			Rows:        section.Rows,
			Cols:        section.Cols,
			Category:    section.Category,
			Unavailable: cells,
		}
	}

	return sections
}

func toShowResponse(show *domain.Show) api.ShowResponse {
	return api.ShowResponse{
		Id:              show.ID,
		ShowType:        string(show.Type),
		MovieId:         show.MovieID,
		EventId:         show.EventID,
		VenueId:         show.VenueID,
		StartTime:       show.StartTime,
		EndTime:         show.EndTime,
		Language:        show.Language,
		Format:          show.Format,
		SeatingLayout:   layoutToAPI(show.Layout),
		AvailableSeats:  show.AvailableSeats,
		BookedSeats:     show.BookedSeats,
		PriceCategories: show.PriceCategories,
		IsActive:        show.Active,
		CreatedAt:       show.CreatedAt,
	}
}
