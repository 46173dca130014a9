package datastructure

// Place model info
// @Description one row of the places dataset. ID is the ordinal of the row (its line index in the dataset file).
type Place struct {
	ID               int      `json:"id"`               // ordinal of the row in the dataset
	Name             string   `json:"name"`             // primary display name, any script
	CountryCode      string   `json:"countryCode"`      // lowercase 2-letter country code
	StateName        string   `json:"stateName"`        // parent region name, may be empty
	Latitude         float64  `json:"latitude"`         // degrees
	Longitude        float64  `json:"longitude"`        // degrees
	AlternativeNames []string `json:"alternativeNames"` // secondary names, in dataset order
}

func NewPlace(id int, name, countryCode, stateName string, lat, lon float64, alternativeNames []string) Place {
	return Place{
		ID:               id,
		Name:             name,
		CountryCode:      countryCode,
		StateName:        stateName,
		Latitude:         lat,
		Longitude:        lon,
		AlternativeNames: alternativeNames,
	}
}

// PlaceMatch model info
// @Description a place scored against a query. only one of EditDistance / PrefixMatchCount is meaningful, depending on the ranking mode.
type PlaceMatch struct {
	Place
	EditDistance              int     `json:"editDistance"`
	PrefixMatchCount          int     `json:"prefixMatchCount"`
	MatchingString            string  `json:"matchingString"`            // the name or alternative name with the best score
	IsMatchingAlternativeName bool    `json:"isMatchingAlternativeName"` // true iff an alternative name strictly beat the primary name
	Distance                  float64 `json:"distance,omitempty"`        // planar distance in degrees, only for gps queries
}

// PlaceMatchWithCountry model info
// @Description a place match with the localized country display name.
type PlaceMatchWithCountry struct {
	PlaceMatch
	Country string `json:"country"`
}
