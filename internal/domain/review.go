package domain

import "time"

// Column names of the reviews input the pipeline reads.
const (
	ColDate          = "date"
	ColDateFlown     = "date_flown"
	ColPlace         = "place"
	ColTravellerType = "traveller_type"
	ColRecommended   = "recommended"
	ColAircraft      = "aircraft"
	ColSeatType      = "seat_type"
)

// Column names of the country reference input.
const (
	ColCountry   = "Country"
	ColCode      = "Code"
	ColContinent = "Continent"
)

var (
	ReviewColumns  = []string{ColDate, ColDateFlown, ColPlace, ColTravellerType, ColRecommended, ColAircraft, ColSeatType}
	CountryColumns = []string{ColCountry, ColCode, ColContinent}
)

// Others is the aircraft group for everything outside the top ranking (null aircraft included).
const Others = "Others"

// RawReview is one reviews row as loaded; nil means the cell was missing.
type RawReview struct {
	Date          *string
	DateFlown     *string
	Place         *string
	TravellerType *string
	Recommended   *string
	Aircraft      *string
	SeatType      *string
	Extra         map[string]*string // passthrough columns
}

type RawCountry struct {
	Country   *string
	Code      *string
	Continent *string
}

// RawTables is the Loader output.
type RawTables struct {
	Identity      string
	Reviews       []RawReview
	ReviewColumns []string // passthrough column order
	Countries     []RawCountry
}

// Review is a cleaned review row.
type Review struct {
	Date          *time.Time         `json:"date"`
	DateFlown     *time.Time         `json:"date_flown"`
	Place         *string            `json:"place"`
	PlaceCleaned  *string            `json:"place_cleaned"`
	TravellerType *string            `json:"traveller_type"`
	Recommended   *string            `json:"recommended"`
	Aircraft      *string            `json:"aircraft"`
	SeatType      *string            `json:"seat_type"`
	Extra         map[string]*string `json:"extra,omitempty"`
}

// Country is a cleaned reference row.
type Country struct {
	Country   *string `json:"Country"`
	Code      *string `json:"Code"`
	Continent *string `json:"Continent"`
}

// JoinedRecord is a review left-extended with its country reference.
type JoinedRecord struct {
	Review
	Country         *string `json:"Country"`
	Code            *string `json:"Code"`
	Continent       *string `json:"Continent"`
	AircraftGrouped string  `json:"aircraft_grouped"`
}

// Dataset is the memoized join output. It is shared between requests and must not be written to.
type Dataset struct {
	Identity    string         `json:"identity"`
	Columns     []string       `json:"columns"`
	Records     []JoinedRecord `json:"records"`
	TopAircraft []string       `json:"top_aircraft"`
	BuiltAt     time.Time      `json:"built_at"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Option is one selectable filter value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
