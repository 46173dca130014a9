package usecases

import (
	"context"

	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/searcher"
)

type Searcher interface {
	Autocomplete(ctx context.Context, req searcher.AutocompleteRequest) ([]datastructure.PlaceMatchWithCountry, error)
	PrefixSearch(ctx context.Context, name string, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error)
	Nearest(ctx context.Context, lat, lon float64, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error)
	PlaceByID(ctx context.Context, ordinal int, lang string) (datastructure.PlaceMatchWithCountry, bool, error)
}

type CountryLister interface {
	Countries(lang string) []enrich.Country
}
