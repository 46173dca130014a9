package ranker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/normalize"

	"github.com/agnivade/levenshtein"
)

type Mode int

const (
	// PrefixMatch scores by the number of leading characters shared with the query, higher is better.
	PrefixMatch Mode = iota
	// EditDistance scores by levenshtein distance to the query, lower is better.
	EditDistance
)

func (m Mode) String() string {
	if m == EditDistance {
		return "edit_distance"
	}
	return "prefix_match"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefix", "prefix_match":
		return PrefixMatch, nil
	case "edit", "edit_distance", "levenshtein":
		return EditDistance, nil
	}
	return PrefixMatch, fmt.Errorf("unknown ranking mode %q", s)
}

// Distance is the levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// PrefixMatchCount counts the leading runes a and b share after trimming and lower-casing both.
func PrefixMatchCount(a, b string) int {
	ra := []rune(normalize.Literal(a))
	rb := []rune(normalize.Literal(b))
	count := 0
	for count < len(ra) && count < len(rb) && ra[count] == rb[count] {
		count++
	}
	return count
}

// Rank scores every place against query and sorts them best first. query and every name are compared in
// the given form, the one the query matched the trie in. input order is kept between equal scores.
func Rank(query string, form normalize.Form, places []datastructure.Place, mode Mode) []datastructure.PlaceMatch {
	q := normalize.Apply(query, form)

	matches := make([]datastructure.PlaceMatch, 0, len(places))
	for _, place := range places {
		matches = append(matches, score(q, form, place, mode))
	}

	if mode == EditDistance {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].EditDistance < matches[j].EditDistance
		})
	} else {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].PrefixMatchCount > matches[j].PrefixMatchCount
		})
	}
	return matches
}

func score(q string, form normalize.Form, place datastructure.Place, mode Mode) datastructure.PlaceMatch {
	scoreOf := func(name string) int {
		n := normalize.Apply(name, form)
		if mode == EditDistance {
			return Distance(q, n)
		}
		return PrefixMatchCount(q, n)
	}
	better := func(a, b int) bool {
		if mode == EditDistance {
			return a < b
		}
		return a > b
	}

	primary := scoreOf(place.Name)

	bestAlt, bestAltIdx := 0, -1
	for i, alt := range place.AlternativeNames {
		s := scoreOf(alt)
		if bestAltIdx < 0 || better(s, bestAlt) {
			bestAlt, bestAltIdx = s, i
		}
	}

	match := datastructure.PlaceMatch{
		Place:          place,
		MatchingString: place.Name,
	}
	best := primary
	if bestAltIdx >= 0 && better(bestAlt, primary) {
		best = bestAlt
		match.MatchingString = place.AlternativeNames[bestAltIdx]
		match.IsMatchingAlternativeName = true
	}

	if mode == EditDistance {
		match.EditDistance = best
	} else {
		match.PrefixMatchCount = best
	}
	return match
}

// SortByDistance computes the planar distance of every match to (lat, lon) and stably sorts nearest first.
func SortByDistance(matches []datastructure.PlaceMatch, lat, lon float64) {
	for i := range matches {
		matches[i].Distance = datastructure.PlanarDistance(lat, lon, matches[i].Latitude, matches[i].Longitude)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
}
