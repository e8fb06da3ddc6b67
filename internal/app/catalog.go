package app

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bookstub/bms/api"
	"github.com/bookstub/bms/internal/domain"
)

func (app *Application) CreateVenueHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateVenueRequest

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

	venue := &domain.Venue{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}

	err = app.venueRepo.Create(r.Context(), venue)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.VenueResponse{
		Id:      venue.ID,
		Name:    venue.Name,
		Address: venue.Address,
		City:    venue.City,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovieHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateMovieRequest

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

	movie := &domain.Movie{
		Title:    req.Title,
		Poster:   req.Poster,
		Duration: req.Duration,
		Genre:    req.Genre,
		Language: req.Language,
	}

	err = app.movieRepo.Create(r.Context(), movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieResponse{
		Id:       movie.ID,
		Title:    movie.Title,
		Poster:   movie.Poster,
		Duration: movie.Duration,
		Genre:    movie.Genre,
		Language: movie.Language,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEventRequest

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

	event := &domain.Event{
		Name:     req.Name,
		Poster:   req.Poster,
		Duration: req.Duration,
		Type:     req.Type,
		Category: req.Category,
	}

	err = app.eventRepo.Create(r.Context(), event)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.EventResponse{
		Id:       event.ID,
		Name:     event.Name,
		Poster:   event.Poster,
		Duration: event.Duration,
		Type:     event.Type,
		Category: event.Category,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
