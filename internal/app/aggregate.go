package app

import "ba_dashboard/internal/domain"

// CountByCountry counts rows per PlaceCleaned, highest count first, ties in
// first-appearance order. Rows without a place are not counted.
func CountByCountry(records []domain.JoinedRecord) []domain.CountryCount {
	vals := make([]*string, len(records))
	for i := range records {
		vals[i] = records[i].PlaceCleaned
	}
	rk := rankByFrequency(vals)
	out := make([]domain.CountryCount, len(rk))
	for i, r := range rk {
		out[i] = domain.CountryCount{Country: r.value, Count: r.count}
	}
	return out
}
