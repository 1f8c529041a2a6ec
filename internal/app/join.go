package app

import (
	"fmt"

	"ba_dashboard/internal/domain"
)

// TopAircraftCount is how many raw aircraft values keep their own group.
const TopAircraftCount = 10

type JoinOptions struct {
	// AllowDuplicateCountries turns a repeated reference name into a
	// relational fan-out instead of a DataError.
	AllowDuplicateCountries bool
}

// Join left-joins reviews to countries on PlaceCleaned == Country and derives
// AircraftGrouped from the top aircraft of the whole joined set. It returns the
// joined rows and the top aircraft list.
func Join(reviews []domain.Review, countries []domain.Country, opts JoinOptions) ([]domain.JoinedRecord, []string, error) {
	byName := make(map[string][]int, len(countries))
	for i, c := range countries {
		if c.Country == nil {
			continue
		}
		name := *c.Country
		if prev, dup := byName[name]; dup && !opts.AllowDuplicateCountries {
			return nil, nil, &domain.DataError{
				Column: domain.ColCountry,
				Row:    i + 1,
				Reason: fmt.Sprintf("duplicate reference country %q (first seen at row %d)", name, prev[0]+1),
			}
		}
		byName[name] = append(byName[name], i)
	}

	out := make([]domain.JoinedRecord, 0, len(reviews))
	for _, r := range reviews {
		var matches []int
		if r.PlaceCleaned != nil {
			matches = byName[*r.PlaceCleaned]
		}
		if len(matches) == 0 {
			out = append(out, domain.JoinedRecord{Review: r})
			continue
		}
		for _, ci := range matches {
			c := countries[ci]
			out = append(out, domain.JoinedRecord{
				Review:    r,
				Country:   c.Country,
				Code:      c.Code,
				Continent: c.Continent,
			})
		}
	}

	top := TopAircraft(out, TopAircraftCount)
	keep := make(map[string]struct{}, len(top))
	for _, a := range top {
		keep[a] = struct{}{}
	}
	for i := range out {
		out[i].AircraftGrouped = groupAircraft(out[i].Aircraft, keep)
	}
	return out, top, nil
}

// TopAircraft ranks raw aircraft values (nulls excluded) and returns at most n.
func TopAircraft(records []domain.JoinedRecord, n int) []string {
	vals := make([]*string, len(records))
	for i := range records {
		vals[i] = records[i].Aircraft
	}
	rk := rankByFrequency(vals)
	if len(rk) > n {
		rk = rk[:n]
	}
	out := make([]string, len(rk))
	for i, r := range rk {
		out[i] = r.value
	}
	return out
}

func groupAircraft(a *string, top map[string]struct{}) string {
	if a == nil {
		return domain.Others
	}
	if _, ok := top[*a]; ok {
		return *a
	}
	return domain.Others
}
