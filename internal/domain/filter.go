package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// All is the "no restriction" sentinel of every filter.
const All = "All"

// Field names a filterable dimension.
type Field string

const (
	FieldYear            Field = "year"
	FieldMonth           Field = "month"
	FieldDay             Field = "day"
	FieldTravellerType   Field = "traveller_type"
	FieldRecommended     Field = "recommended"
	FieldAircraftGrouped Field = "aircraft_grouped"
	FieldSeatType        Field = "seat_type"
	FieldContinent       Field = "continent"
	FieldCountry         Field = "country"
)

var Fields = []Field{
	FieldYear, FieldMonth, FieldDay,
	FieldTravellerType, FieldRecommended, FieldAircraftGrouped, FieldSeatType,
	FieldContinent, FieldCountry,
}

// FilterState is the full set of user selections. Nil date parts and empty
// selections mean All. It is passed by value.
type FilterState struct {
	Year  *int
	Month *int // ignored unless Year is set
	Day   *int // ignored unless Year and Month are set

	TravellerTypes  []string
	Recommendations []string
	AircraftGrouped []string
	SeatTypes       []string
	Countries       []string

	// Continent only narrows the country options; it never filters rows.
	Continent string
}

// NormalizeSelection applies the multi-select policy: "All" next to literals is
// dropped, an empty selection means All. all reports whether the field is unrestricted.
func NormalizeSelection(sel []string) (values []string, all bool) {
	for _, v := range sel {
		if v != All {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, true
	}
	return values, false
}

// Selection returns the raw selection stored for a multi-select field.
func (s FilterState) Selection(f Field) []string {
	switch f {
	case FieldTravellerType:
		return s.TravellerTypes
	case FieldRecommended:
		return s.Recommendations
	case FieldAircraftGrouped:
		return s.AircraftGrouped
	case FieldSeatType:
		return s.SeatTypes
	case FieldCountry:
		return s.Countries
	}
	return nil
}

// ContinentOrAll returns the selected continent, or All when none is set.
func (s FilterState) ContinentOrAll() string {
	if c := strings.TrimSpace(s.Continent); c != "" {
		return c
	}
	return All
}

// ParseFilterState reads a FilterState from query parameters. Multi-selects are
// repeated keys; "All" or a non-integer leaves a date part unset.
func ParseFilterState(q url.Values) FilterState {
	return FilterState{
		Year:            parseIntParam(q.Get("year")),
		Month:           parseIntParam(q.Get("month")),
		Day:             parseIntParam(q.Get("day")),
		TravellerTypes:  q["traveller_type"],
		Recommendations: q["recommended"],
		AircraftGrouped: q["aircraft"],
		SeatTypes:       q["seat_type"],
		Countries:       q["country"],
		Continent:       q.Get("continent"),
	}
}

func parseIntParam(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == All {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
