package usecases

import (
	"context"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/searcher"

	"go.uber.org/zap"
)

type SearcherService struct {
	log       *zap.Logger
	searcher  Searcher
	countries CountryLister
}

func New(log *zap.Logger, searcher Searcher, countries CountryLister) *SearcherService {
	return &SearcherService{
		log:       log,
		searcher:  searcher,
		countries: countries,
	}
}

func (s *SearcherService) Autocomplete(ctx context.Context, req searcher.AutocompleteRequest) ([]datastructure.PlaceMatchWithCountry, error) {
	return s.searcher.Autocomplete(ctx, req)
}

func (s *SearcherService) Search(ctx context.Context, name string, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error) {
	return s.searcher.PrefixSearch(ctx, name, count, lang)
}

func (s *SearcherService) Nearest(ctx context.Context, lat, lon float64, count int, lang string) ([]datastructure.PlaceMatchWithCountry, error) {
	return s.searcher.Nearest(ctx, lat, lon, count, lang)
}

// PlaceByID reports an unknown id as pkg.ErrNotFound.
func (s *SearcherService) PlaceByID(ctx context.Context, id int, lang string) (datastructure.PlaceMatchWithCountry, error) {
	place, ok, err := s.searcher.PlaceByID(ctx, id, lang)
	if err != nil {
		return datastructure.PlaceMatchWithCountry{}, err
	}
	if !ok {
		return datastructure.PlaceMatchWithCountry{}, pkg.WrapErrorf(nil, pkg.ErrNotFound, "place %d not found", id)
	}
	return place, nil
}

func (s *SearcherService) Countries(lang string) []enrich.Country {
	return s.countries.Countries(lang)
}
