package app_test

import (
	"time"

	"ba_dashboard/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func day(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func str(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

// rawReview builds a review row with the fields most tests care about.
func rawReview(place, flown, traveller, aircraft string) domain.RawReview {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return domain.RawReview{
		Date:          ptr("01/01/2020"),
		DateFlown:     opt(flown),
		Place:         opt(place),
		TravellerType: opt(traveller),
		Recommended:   ptr("yes"),
		Aircraft:      opt(aircraft),
		SeatType:      ptr("Economy Class"),
	}
}

func rawCountry(name, code, continent string) domain.RawCountry {
	c := domain.RawCountry{Country: ptr(name), Continent: ptr(continent)}
	if code != "" {
		c.Code = ptr(code)
	}
	return c
}
