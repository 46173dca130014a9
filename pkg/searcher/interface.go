package searcher

import (
	"context"
	"time"

	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/grid"
	"github.com/lintang-b-s/place-search/pkg/trie"
)

type TrieI interface {
	Autocomplete(query string, maxResults int) trie.AutocompleteResult
	PrefixSearch(query string) ([]int, bool)
}

type GridI interface {
	NearestNeighbors(lat, lon float64, k int) []grid.Neighbor
}

type SearcherDocStore interface {
	FetchMany(ctx context.Context, ordinals []int) ([]datastructure.Place, error)
	Lookup(ctx context.Context, ordinal int) (datastructure.Place, bool, error)
}

type EnricherI interface {
	Enrich(matches []datastructure.PlaceMatch, lang string) []datastructure.PlaceMatchWithCountry
}

type QueryObserver interface {
	ObserveQuery(kind string, start time.Time, candidates, results int, err error)
}
