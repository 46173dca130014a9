// Package enrich attaches localized country names to place matches.
package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/compress"
	"github.com/lintang-b-s/place-search/pkg/datastructure"

	"github.com/puzpuzpuz/xsync/v3"
)

// CountryTable maps a lowercase country code to its display names keyed by language tag.
type CountryTable interface {
	Translations(code string) (map[string]string, bool)
	Codes() []string
}

type MapTable struct {
	countries map[string]map[string]string
}

func NewMapTable(countries map[string]map[string]string) *MapTable {
	m := make(map[string]map[string]string, len(countries))
	for code, names := range countries {
		m[strings.ToLower(code)] = names
	}
	return &MapTable{countries: m}
}

// LoadMapTable reads a gzip compressed json object {code: {lang: name}}.
func LoadMapTable(path string) (*MapTable, error) {
	var countries map[string]map[string]string
	err := compress.ReadGzipFile(path, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&countries)
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "country translation file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error when reading country translations %s: %w", path, err)
	}
	return NewMapTable(countries), nil
}

func (t *MapTable) Translations(code string) (map[string]string, bool) {
	names, ok := t.countries[strings.ToLower(code)]
	return names, ok
}

func (t *MapTable) Codes() []string {
	codes := make([]string, 0, len(t.countries))
	for code := range t.countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns the underlying table, used when importing it into the kv store.
func (t *MapTable) All() map[string]map[string]string {
	return t.countries
}

type Country struct {
	Code        string `json:"code"`
	EnglishName string `json:"englishName"`
	Name        string `json:"name"`
}

type Enricher struct {
	table CountryTable
	cache *xsync.MapOf[string, map[string]string]
}

// NewEnricher accepts a nil table, every country name is then empty.
func NewEnricher(table CountryTable) *Enricher {
	return &Enricher{
		table: table,
		cache: xsync.NewMapOf[string, map[string]string](),
	}
}

func (e *Enricher) translations(code string) map[string]string {
	code = strings.ToLower(code)
	if names, ok := e.cache.Load(code); ok {
		return names
	}
	if e.table == nil {
		return nil
	}
	names, ok := e.table.Translations(code)
	if !ok {
		names = map[string]string{}
	}
	e.cache.Store(code, names)
	return names
}

// CountryName returns the name of the country in lang, the english name when there is no such translation,
// or an empty string for an unknown country.
func (e *Enricher) CountryName(code, lang string) string {
	names := e.translations(code)
	if name := names[ResolveLanguage(lang)]; name != "" {
		return name
	}
	return names[DEFAULT_LANGUAGE]
}

func (e *Enricher) Enrich(matches []datastructure.PlaceMatch, lang string) []datastructure.PlaceMatchWithCountry {
	out := make([]datastructure.PlaceMatchWithCountry, 0, len(matches))
	for _, m := range matches {
		out = append(out, datastructure.PlaceMatchWithCountry{
			PlaceMatch: m,
			Country:    e.CountryName(m.CountryCode, lang),
		})
	}
	return out
}

// Countries lists every known country ordered by code.
func (e *Enricher) Countries(lang string) []Country {
	if e.table == nil {
		return []Country{}
	}
	codes := e.table.Codes()
	sort.Strings(codes)

	countries := make([]Country, 0, len(codes))
	for _, code := range codes {
		countries = append(countries, Country{
			Code:        code,
			EnglishName: e.translations(code)[DEFAULT_LANGUAGE],
			Name:        e.CountryName(code, lang),
		})
	}
	return countries
}
