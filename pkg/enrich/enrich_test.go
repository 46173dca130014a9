package enrich

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/compress"
	"github.com/lintang-b-s/place-search/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCountries = map[string]map[string]string{
	"TR": {"en": "Turkey", "tr": "Türkiye", "de": "Türkei"},
	"de": {"en": "Germany", "de": "Deutschland", "fr": ""},
	"xx": {"fr": "Inconnu"},
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{tag: "tr", expected: "tr"},
		{tag: "TR", expected: "tr"},
		{tag: " zh ", expected: "zh"},
		{tag: "", expected: "en"},
		{tag: "pt", expected: "en"},
		{tag: "en-US", expected: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveLanguage(tt.tag))
		})
	}

	assert.True(t, IsSupportedLanguage("KO"))
	assert.False(t, IsSupportedLanguage("jp"))
	assert.Len(t, SupportedLanguages(), 16)
	for _, lang := range SupportedLanguages() {
		assert.True(t, IsSupportedLanguage(lang))
	}
}

func TestCountryName(t *testing.T) {
	e := NewEnricher(NewMapTable(testCountries))

	tests := []struct {
		name     string
		code     string
		lang     string
		expected string
	}{
		{name: "translated", code: "tr", lang: "tr", expected: "Türkiye"},
		{name: "code is case insensitive", code: "TR", lang: "de", expected: "Türkei"},
		{name: "missing translation falls back to english", code: "tr", lang: "ru", expected: "Turkey"},
		{name: "empty translation falls back to english", code: "de", lang: "fr", expected: "Germany"},
		{name: "unsupported language", code: "de", lang: "pt", expected: "Germany"},
		{name: "no english name", code: "xx", lang: "de", expected: ""},
		{name: "unknown country", code: "zz", lang: "en", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.CountryName(tt.code, tt.lang))
		})
	}
}

func TestEnrich(t *testing.T) {
	e := NewEnricher(NewMapTable(testCountries))
	matches := []datastructure.PlaceMatch{
		{Place: datastructure.NewPlace(1, "Ankara", "tr", "Ankara", 39.9, 32.8, []string{})},
		{Place: datastructure.NewPlace(2, "Berlin", "de", "Berlin", 52.5, 13.4, []string{})},
		{Place: datastructure.NewPlace(3, "Atlantis", "zz", "", 0, 0, []string{})},
	}

	enriched := e.Enrich(matches, "de")
	require.Len(t, enriched, 3)
	assert.Equal(t, "Türkei", enriched[0].Country)
	assert.Equal(t, "Deutschland", enriched[1].Country)
	assert.Equal(t, "", enriched[2].Country)
	assert.Equal(t, matches[1], enriched[1].PlaceMatch)
}

func TestNilTable(t *testing.T) {
	e := NewEnricher(nil)
	assert.Equal(t, "", e.CountryName("tr", "tr"))
	assert.Empty(t, e.Countries("en"))
}

func TestCountries(t *testing.T) {
	e := NewEnricher(NewMapTable(testCountries))
	assert.Equal(t, []Country{
		{Code: "de", EnglishName: "Germany", Name: "Germany"},
		{Code: "tr", EnglishName: "Turkey", Name: "Türkiye"},
		{Code: "xx", EnglishName: "", Name: ""},
	}, e.Countries("tr"))
}

func TestLoadMapTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country-translations.json.gz")
	err := compress.WriteGzipFile(path, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(testCountries)
	})
	require.NoError(t, err)

	table, err := LoadMapTable(path)
	require.NoError(t, err)

	names, ok := table.Translations("tr")
	require.True(t, ok)
	assert.Equal(t, "Türkiye", names["tr"])
	assert.Equal(t, []string{"de", "tr", "xx"}, table.Codes())

	_, err = LoadMapTable(filepath.Join(t.TempDir(), "missing.json.gz"))
	assert.ErrorIs(t, err, pkg.ErrMissingStorage)
}
