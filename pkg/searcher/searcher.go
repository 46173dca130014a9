package searcher

import (
	"context"
	"time"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/metrics"
	"github.com/lintang-b-s/place-search/pkg/normalize"
	"github.com/lintang-b-s/place-search/pkg/ranker"

	"go.uber.org/zap"
)

// Searcher answers text and gps queries against an already loaded trie and grid. it keeps no state
// between calls, so one Searcher serves concurrent queries.
type Searcher struct {
	trie          TrieI
	grid          GridI
	docStore      SearcherDocStore
	enricher      EnricherI
	log           *zap.Logger
	rankingMode   ranker.Mode
	candidatePool int
	observer      QueryObserver
}

type Option func(*Searcher)

func WithRankingMode(mode ranker.Mode) Option {
	return func(s *Searcher) {
		s.rankingMode = mode
	}
}

// WithCandidatePool sets the soft cap of trie candidates fetched and ranked per text query.
func WithCandidatePool(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.candidatePool = n
		}
	}
}

func WithQueryObserver(o QueryObserver) Option {
	return func(s *Searcher) {
		s.observer = o
	}
}

func NewSearcher(trie TrieI, grid GridI, docStore SearcherDocStore, enricher EnricherI, log *zap.Logger,
	opts ...Option) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Searcher{
		trie:          trie,
		grid:          grid,
		docStore:      docStore,
		enricher:      enricher,
		log:           log,
		rankingMode:   ranker.PrefixMatch,
		candidatePool: DEFAULT_CANDIDATE_POOL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AutocompleteRequest struct {
	Query    string
	Count    int
	Language string
	// Lat and Lon re-sort the ranked candidates by distance, only when both are set.
	Lat *float64
	Lon *float64
}

// ClampCount keeps n within [1, MAX_COUNT]. zero or negative counts become DEFAULT_COUNT.
func ClampCount(n int) int {
	if n <= 0 {
		return DEFAULT_COUNT
	}
	if n > MAX_COUNT {
		return MAX_COUNT
	}
	return n
}

func validateCoordinate(lat, lon float64) error {
	if !datastructure.ValidCoordinate(lat, lon) {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "invalid coordinate (%v, %v)", lat, lon)
	}
	return nil
}

// Autocomplete returns the best matches for a partial place name.
func (s *Searcher) Autocomplete(ctx context.Context, req AutocompleteRequest) (results []datastructure.PlaceMatchWithCountry,
	err error) {
	start := time.Now()
	candidates := 0
	defer func() { s.observe(metrics.QueryAutocomplete, start, candidates, len(results), err) }()

	sortByGPS := req.Lat != nil && req.Lon != nil
	if sortByGPS {
		if err := validateCoordinate(*req.Lat, *req.Lon); err != nil {
			return nil, err
		}
	}
	if normalize.IsBlank(req.Query) {
		return []datastructure.PlaceMatchWithCountry{}, nil
	}

	res := s.trie.Autocomplete(req.Query, s.candidatePool)
	candidates = len(res.Ordinals)
	if candidates == 0 {
		return []datastructure.PlaceMatchWithCountry{}, nil
	}

	places, err := s.docStore.FetchMany(ctx, res.Ordinals)
	if err != nil {
		s.log.Error("error when fetching autocomplete candidates", zap.String("query", req.Query), zap.Error(err))
		return nil, err
	}

	matches := ranker.Rank(res.MatchedQuery, res.Form, places, s.rankingMode)
	if sortByGPS {
		ranker.SortByDistance(matches, *req.Lat, *req.Lon)
	}

	s.log.Debug("autocomplete", zap.String("query", req.Query), zap.String("matched", res.MatchedQuery),
		zap.String("form", res.Form.String()), zap.Int("candidates", candidates))
	return s.enricher.Enrich(truncate(matches, ClampCount(req.Count)), req.Language), nil
}

// PrefixSearch only returns places with a name that is exactly name after normalization, ranked the same
// way as Autocomplete.
func (s *Searcher) PrefixSearch(ctx context.Context, name string, count int, lang string) (
	results []datastructure.PlaceMatchWithCountry, err error) {
	start := time.Now()
	candidates := 0
	defer func() { s.observe(metrics.QueryPrefix, start, candidates, len(results), err) }()

	ordinals, ok := s.trie.PrefixSearch(name)
	if !ok || len(ordinals) == 0 {
		return []datastructure.PlaceMatchWithCountry{}, nil
	}
	if len(ordinals) > s.candidatePool {
		ordinals = ordinals[:s.candidatePool]
	}
	candidates = len(ordinals)

	places, err := s.docStore.FetchMany(ctx, ordinals)
	if err != nil {
		s.log.Error("error when fetching prefix search candidates", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	// the literal and the folded spelling of name both end at the returned node, comparing folded
	// spellings scores both kinds of hit alike.
	matches := ranker.Rank(name, normalize.FoldedForm, places, s.rankingMode)
	return s.enricher.Enrich(truncate(matches, ClampCount(count)), lang), nil
}

// Nearest returns the places closest to (lat, lon) from the surrounding grid cells, nearest first.
func (s *Searcher) Nearest(ctx context.Context, lat, lon float64, count int, lang string) (
	results []datastructure.PlaceMatchWithCountry, err error) {
	start := time.Now()
	candidates := 0
	defer func() { s.observe(metrics.QueryNearest, start, candidates, len(results), err) }()

	if err := validateCoordinate(lat, lon); err != nil {
		return nil, err
	}

	neighbors := s.grid.NearestNeighbors(lat, lon, ClampCount(count))
	candidates = len(neighbors)
	if candidates == 0 {
		return []datastructure.PlaceMatchWithCountry{}, nil
	}

	ordinals := make([]int, 0, len(neighbors))
	for _, n := range neighbors {
		ordinals = append(ordinals, n.Ordinal)
	}
	places, err := s.docStore.FetchMany(ctx, ordinals)
	if err != nil {
		s.log.Error("error when fetching nearest places", zap.Float64("lat", lat), zap.Float64("lon", lon),
			zap.Error(err))
		return nil, err
	}

	matches := make([]datastructure.PlaceMatch, 0, len(places))
	for i, place := range places {
		matches = append(matches, datastructure.PlaceMatch{
			Place:          place,
			MatchingString: place.Name,
			Distance:       neighbors[i].Distance,
		})
	}
	return s.enricher.Enrich(matches, lang), nil
}

// PlaceByID looks up a single place. an unknown ordinal is reported as ok == false.
func (s *Searcher) PlaceByID(ctx context.Context, ordinal int, lang string) (result datastructure.PlaceMatchWithCountry,
	ok bool, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if ok {
			n = 1
		}
		s.observe(metrics.QueryPlaceByID, start, n, n, err)
	}()

	place, ok, err := s.docStore.Lookup(ctx, ordinal)
	if err != nil || !ok {
		return datastructure.PlaceMatchWithCountry{}, false, err
	}

	enriched := s.enricher.Enrich([]datastructure.PlaceMatch{{Place: place, MatchingString: place.Name}}, lang)
	return enriched[0], true, nil
}

func (s *Searcher) observe(kind string, start time.Time, candidates, results int, err error) {
	if s.observer != nil {
		s.observer.ObserveQuery(kind, start, candidates, results, err)
	}
}

func truncate(matches []datastructure.PlaceMatch, n int) []datastructure.PlaceMatch {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
