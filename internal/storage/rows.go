// Package storage holds the loaders of the two input tables. Each loader turns
// its rows into Row values and maps them with the helpers below.
package storage

import (
	"ba_dashboard/internal/domain"
)

// Row is one input row keyed by column name; nil marks a missing cell.
type Row map[string]*string

// RequireColumns fails with a LoadError naming the first required column absent from have.
func RequireColumns(source string, have, want []string) error {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return &domain.LoadError{Source: source, Column: w}
		}
	}
	return nil
}

// Passthrough returns the review columns the pipeline does not interpret, in input order.
func Passthrough(have []string) []string {
	known := make(map[string]struct{}, len(domain.ReviewColumns))
	for _, c := range domain.ReviewColumns {
		known[c] = struct{}{}
	}
	var out []string
	for _, h := range have {
		if _, ok := known[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

func ReviewFromRow(r Row, extra []string) domain.RawReview {
	rv := domain.RawReview{
		Date:          r[domain.ColDate],
		DateFlown:     r[domain.ColDateFlown],
		Place:         r[domain.ColPlace],
		TravellerType: r[domain.ColTravellerType],
		Recommended:   r[domain.ColRecommended],
		Aircraft:      r[domain.ColAircraft],
		SeatType:      r[domain.ColSeatType],
	}
	if len(extra) > 0 {
		rv.Extra = make(map[string]*string, len(extra))
		for _, c := range extra {
			rv.Extra[c] = r[c]
		}
	}
	return rv
}

func CountryFromRow(r Row) domain.RawCountry {
	return domain.RawCountry{
		Country:   r[domain.ColCountry],
		Code:      r[domain.ColCode],
		Continent: r[domain.ColContinent],
	}
}
