package searcher

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/grid"
	"github.com/lintang-b-s/place-search/pkg/metrics"
	"github.com/lintang-b-s/place-search/pkg/ranker"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureRows = []string{
	"name\tcountryCode\tstateName\tlatitude\tlongitude\talternativeNames",
	"Ankara\ttr\tAnkara\t39.91987\t32.85427\tAngora,Ankyra",
	"Ankaran\tsi\tAnkaran\t45.57833\t13.73611\t",
	"Çankırı\ttr\tÇankırı\t40.60139\t33.61361\t",
	"San Jose\tcr\tSan José\t9.93333\t-84.08333\t",
	"San Juan\tpr\tSan Juan\t18.46633\t-66.10572\t",
	"Istanbul\ttr\tİstanbul\t41.01384\t28.94966\tKonstantiniyye;Constantinople",
	"Angora Village\tus\tCalifornia\t39.92\t32.86\t",
}

func newFixtureSearcher(t *testing.T, opts ...Option) (*Searcher, string) {
	t.Helper()
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "db.tsv")
	indexPath := filepath.Join(dir, "index.bin")
	require.NoError(t, os.WriteFile(datasetPath, []byte(strings.Join(fixtureRows, "\n")+"\n"), 0644))

	ctx := context.Background()
	_, err := docstore.BuildOffsetIndex(ctx, datasetPath, indexPath)
	require.NoError(t, err)
	tr, err := trie.BuildFromDataset(ctx, datasetPath, true)
	require.NoError(t, err)
	g, _, err := grid.BuildFromDataset(ctx, datasetPath, true)
	require.NoError(t, err)

	table := enrich.NewMapTable(map[string]map[string]string{
		"tr": {"en": "Turkey", "tr": "Türkiye"},
		"si": {"en": "Slovenia", "de": "Slowenien"},
		"pr": {"en": "Puerto Rico"},
	})

	store := docstore.New(datasetPath, indexPath)
	return NewSearcher(tr, g, store, enrich.NewEnricher(table), nil, opts...), datasetPath
}

func TestAutocomplete(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "anka", Count: 10, Language: "de"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Ankara", results[0].Name)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, "Turkey", results[0].Country)
	assert.Equal(t, "Ankaran", results[1].Name)
	assert.Equal(t, "Slowenien", results[1].Country)
	assert.Equal(t, 4, results[0].PrefixMatchCount)
}

func TestAutocompleteFoldedMatch(t *testing.T) {
	for _, mode := range []ranker.Mode{ranker.PrefixMatch, ranker.EditDistance} {
		t.Run(mode.String(), func(t *testing.T) {
			s, _ := newFixtureSearcher(t, WithRankingMode(mode))

			results, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "cankiri", Language: "tr"})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "Çankırı", results[0].MatchingString)
			assert.False(t, results[0].IsMatchingAlternativeName)
			assert.Equal(t, "Türkiye", results[0].Country)
		})
	}
}

func TestAutocompleteAlternativeName(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "Konstan", Count: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Istanbul", results[0].Name)
	assert.Equal(t, "Konstantiniyye", results[0].MatchingString)
	assert.True(t, results[0].IsMatchingAlternativeName)
}

func TestAutocompleteEmpty(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	for _, q := range []string{"", "   ", "zzzz"} {
		results, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: q})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestAutocompleteTruncates(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "an", Count: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = s.Autocomplete(context.Background(), AutocompleteRequest{Query: "an", Count: -5})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestAutocompleteSortsByGPS(t *testing.T) {
	s, _ := newFixtureSearcher(t)
	ctx := context.Background()

	results, err := s.Autocomplete(ctx, AutocompleteRequest{Query: "san"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "San Jose", results[0].Name)
	assert.Equal(t, 0.0, results[0].Distance)

	lat, lon := 18.4, -66.0
	results, err = s.Autocomplete(ctx, AutocompleteRequest{Query: "san", Lat: &lat, Lon: &lon})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "San Juan", results[0].Name)
	assert.Equal(t, "Puerto Rico", results[0].Country)
	assert.Less(t, results[0].Distance, results[1].Distance)

	// a lone coordinate does not change the order.
	results, err = s.Autocomplete(ctx, AutocompleteRequest{Query: "san", Lat: &lat})
	require.NoError(t, err)
	assert.Equal(t, "San Jose", results[0].Name)
}

func TestAutocompleteInvalidCoordinate(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	lat, lon := math.NaN(), 10.0
	_, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "san", Lat: &lat, Lon: &lon})
	assert.ErrorIs(t, err, pkg.ErrBadParamInput)
}

func TestPrefixSearch(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.PrefixSearch(context.Background(), "ANKARA", 10, "en")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ankara", results[0].Name)

	results, err = s.PrefixSearch(context.Background(), "angora", 10, "en")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsMatchingAlternativeName)

	results, err = s.PrefixSearch(context.Background(), "anka", 10, "en")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNearest(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.Nearest(context.Background(), 39.91987, 32.85427, 5, "tr")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Ankara", results[0].Name)
	assert.Equal(t, 0.0, results[0].Distance)
	assert.Equal(t, "Türkiye", results[0].Country)
	assert.Equal(t, "Angora Village", results[1].Name)
	assert.Greater(t, results[1].Distance, 0.0)

	results, err = s.Nearest(context.Background(), 39.91987, 32.85427, 1, "tr")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestNearestEmptyNeighborhood(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	results, err := s.Nearest(context.Background(), -45, 170, 5, "en")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestNearestInvalidCoordinate(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	tests := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{name: "latitude out of range", lat: 91, lon: 0},
		{name: "longitude out of range", lat: 0, lon: -181},
		{name: "infinite", lat: math.Inf(1), lon: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Nearest(context.Background(), tt.lat, tt.lon, 5, "en")
			assert.ErrorIs(t, err, pkg.ErrBadParamInput)
		})
	}
}

func TestPlaceByID(t *testing.T) {
	s, _ := newFixtureSearcher(t)

	place, ok, err := s.PlaceByID(context.Background(), 2, "de")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ankaran", place.Name)
	assert.Equal(t, "Slowenien", place.Country)

	for _, ordinal := range []int{0, -1, len(fixtureRows)} {
		_, ok, err = s.PlaceByID(context.Background(), ordinal, "en")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestStorageErrorsPropagate(t *testing.T) {
	s, datasetPath := newFixtureSearcher(t)
	require.NoError(t, os.Remove(datasetPath))

	_, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "anka"})
	assert.ErrorIs(t, err, pkg.ErrMissingStorage)

	_, err = s.Nearest(context.Background(), 39.91987, 32.85427, 5, "en")
	assert.ErrorIs(t, err, pkg.ErrMissingStorage)

	_, _, err = s.PlaceByID(context.Background(), 1, "en")
	assert.ErrorIs(t, err, pkg.ErrMissingStorage)
}

func TestQueryMetrics(t *testing.T) {
	m := metrics.New()
	s, _ := newFixtureSearcher(t, WithQueryObserver(m), WithCandidatePool(50))

	_, err := s.Autocomplete(context.Background(), AutocompleteRequest{Query: "anka"})
	require.NoError(t, err)
	_, err = s.Autocomplete(context.Background(), AutocompleteRequest{Query: "zzzz"})
	require.NoError(t, err)
	_, err = s.Nearest(context.Background(), 100, 0, 5, "en")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.QueryAutocomplete, metrics.ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.QueryAutocomplete, metrics.ResultEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.QueryNearest, metrics.ResultError)))
}

func TestClampCount(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{input: -1, expected: DEFAULT_COUNT},
		{input: 0, expected: DEFAULT_COUNT},
		{input: 1, expected: 1},
		{input: 55, expected: 55},
		{input: 100, expected: 100},
		{input: 101, expected: MAX_COUNT},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampCount(tt.input))
	}
}
