package controllers

import (
	"context"

	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/searcher"
)

type SearchService interface {
	Autocomplete(ctx context.Context, req searcher.AutocompleteRequest) ([]datastructure.PlaceMatchWithCountry, error)
	Search(ctx context.Context, name string, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error)
	Nearest(ctx context.Context, lat, lon float64, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error)
	PlaceByID(ctx context.Context, id int, lang string) (datastructure.PlaceMatchWithCountry, error)
	Countries(lang string) []enrich.Country
}

type envelope map[string]interface{}
