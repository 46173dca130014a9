package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lintang-b-s/place-search/pkg/enrich"
	helper "github.com/lintang-b-s/place-search/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/place-search/pkg/searcher"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type searchAPI struct {
	searchService SearchService
	log           *zap.Logger
	validator     *validator.Validate
	trans         ut.Translator
}

func New(searchService SearchService, log *zap.Logger) *searchAPI {
	validate, trans := newValidator()
	return &searchAPI{
		searchService: searchService,
		log:           log,
		validator:     validate,
		trans:         trans,
	}
}

func (api *searchAPI) Routes(group *helper.RouteGroup) {
	group.GET("/autocomplete", api.autocomplete)
	group.GET("/search", api.search)
	group.GET("/nearest", api.nearest)
	group.GET("/places/:id", api.placeByID)
	group.GET("/countries", api.countries)
	group.GET("/languages", api.languages)
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// autocompleteRequest is read from the query string: ?q=&count=&lang=&lat=&lon=
type autocompleteRequest struct {
	Query    string   `validate:"max=256"`
	Count    int      `validate:"min=-1000,max=1000"`
	Language string   `validate:"omitempty,max=16"`
	Lat      *float64 `validate:"omitempty,min=-90,max=90"`
	Lon      *float64 `validate:"omitempty,min=-180,max=180"`
}

func (api *searchAPI) autocomplete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	qs := r.URL.Query()
	var request autocompleteRequest
	var err error

	request.Query = qs.Get("q")
	request.Language = qs.Get("lang")
	if request.Count, err = readInt(qs, "count", 0); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lat, err = readFloat(qs, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = readFloat(qs, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.searchService.Autocomplete(r.Context(), searcher.AutocompleteRequest{
		Query:    request.Query,
		Count:    request.Count,
		Language: request.Language,
		Lat:      request.Lat,
		Lon:      request.Lon,
	})
	if err != nil {
		api.getStatusResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": results}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type searchRequest struct {
	Name     string `validate:"required,max=256"`
	Count    int    `validate:"min=-1000,max=1000"`
	Language string `validate:"omitempty,max=16"`
}

func (api *searchAPI) search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	qs := r.URL.Query()
	var request searchRequest
	var err error

	request.Name = qs.Get("q")
	request.Language = qs.Get("lang")
	if request.Count, err = readInt(qs, "count", 0); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.searchService.Search(r.Context(), request.Name, request.Count, request.Language)
	if err != nil {
		api.getStatusResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": results}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type nearestRequest struct {
	Lat      *float64 `validate:"required,min=-90,max=90"`
	Lon      *float64 `validate:"required,min=-180,max=180"`
	Count    int      `validate:"min=-1000,max=1000"`
	Language string   `validate:"omitempty,max=16"`
}

func (api *searchAPI) nearest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	qs := r.URL.Query()
	var request nearestRequest
	var err error

	request.Language = qs.Get("lang")
	if request.Count, err = readInt(qs, "count", 0); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lat, err = readFloat(qs, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = readFloat(qs, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.searchService.Nearest(r.Context(), *request.Lat, *request.Lon, request.Count, request.Language)
	if err != nil {
		api.getStatusResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": results}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *searchAPI) placeByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: id must be an integer"))
		return
	}

	result, err := api.searchService.PlaceByID(r.Context(), id, r.URL.Query().Get("lang"))
	if err != nil {
		api.getStatusResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": result}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *searchAPI) countries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	countries := api.searchService.Countries(r.URL.Query().Get("lang"))

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": countries}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *searchAPI) languages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": enrich.SupportedLanguages()}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
