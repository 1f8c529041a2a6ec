package app

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ba_dashboard/internal/domain"
)

const (
	sarkCountry = "Sark"
	sarkCode    = "SRK"
)

// Clean applies the fixed cleaning rules to both raw tables. The inputs are not modified.
func Clean(raw domain.RawTables) ([]domain.Review, []domain.Country, error) {
	fill, err := travellerTypeMode(raw.Reviews)
	if err != nil {
		return nil, nil, err
	}

	title := cases.Title(language.Und)
	reviews := make([]domain.Review, len(raw.Reviews))
	for i, r := range raw.Reviews {
		tt := r.TravellerType
		if tt == nil {
			tt = ptrStr(fill)
		}
		reviews[i] = domain.Review{
			Date:          parseDayFirst(r.Date),
			DateFlown:     parseDayFirst(r.DateFlown),
			Place:         r.Place,
			PlaceCleaned:  titleTrim(title, r.Place),
			TravellerType: tt,
			Recommended:   r.Recommended,
			Aircraft:      r.Aircraft,
			SeatType:      r.SeatType,
			Extra:         r.Extra,
		}
	}

	return reviews, cleanCountries(raw.Countries), nil
}

func cleanCountries(in []domain.RawCountry) []domain.Country {
	out := make([]domain.Country, len(in))
	for i, c := range in {
		name := trimPtr(c.Country)
		code := c.Code
		if name != nil && *name == sarkCountry {
			code = ptrStr(sarkCode)
		}
		out[i] = domain.Country{Country: name, Code: code, Continent: c.Continent}
	}
	return out
}

// travellerTypeMode returns the most frequent non-null traveller type; ties go
// to the value seen first.
func travellerTypeMode(rows []domain.RawReview) (string, error) {
	vals := make([]*string, len(rows))
	for i, r := range rows {
		vals[i] = r.TravellerType
	}
	ranked := rankByFrequency(vals)
	if len(ranked) == 0 {
		if len(rows) == 0 {
			// nothing to fill
			return "", nil
		}
		return "", &domain.DataError{Column: domain.ColTravellerType, Reason: "no non-null values, mode is undefined"}
	}
	return ranked[0].value, nil
}

// titleTrim trims then title-cases. Casing restarts after an apostrophe, so
// "cote d'ivoire" becomes "Cote D'Ivoire". A Caser keeps state, so callers own one each.
func titleTrim(c cases.Caser, p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	var b strings.Builder
	start := 0
	for i, r := range s {
		if isApostrophe(r) {
			b.WriteString(c.String(s[start:i]))
			b.WriteRune(r)
			start = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(c.String(s[start:]))
	out := b.String()
	return &out
}

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

// dayFirstLayouts are tried in order; numeric layouts read day before month.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
}

var ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)

// parseDayFirst returns nil for missing or unparseable values.
func parseDayFirst(p *string) *time.Time {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
