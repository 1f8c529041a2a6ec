package app

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"ba_dashboard/internal/domain"
)

// FilterOptions lists the values a user can pick for field, given the
// selections already made in ctx. The All sentinel is never included.
func FilterOptions(records []domain.JoinedRecord, field domain.Field, ctx domain.FilterState) ([]domain.Option, error) {
	switch field {
	case domain.FieldYear:
		return intOptions(dateParts(records, nil, nil, func(t time.Time) int { return t.Year() }), strconv.Itoa), nil
	case domain.FieldMonth:
		if ctx.Year == nil {
			return []domain.Option{}, nil
		}
		months := dateParts(records, ctx.Year, nil, func(t time.Time) int { return int(t.Month()) })
		return intOptions(months, func(m int) string { return time.Month(m).String() }), nil
	case domain.FieldDay:
		if ctx.Year == nil || ctx.Month == nil {
			return []domain.Option{}, nil
		}
		return intOptions(dateParts(records, ctx.Year, ctx.Month, func(t time.Time) int { return t.Day() }), strconv.Itoa), nil
	case domain.FieldTravellerType, domain.FieldRecommended, domain.FieldAircraftGrouped, domain.FieldSeatType:
		return textOptions(distinct(records, fieldValue(field), nil)), nil
	case domain.FieldContinent:
		vals := distinct(records, fieldValue(field), nil)
		sort.Strings(vals)
		return textOptions(vals), nil
	case domain.FieldCountry:
		var keep func(r *domain.JoinedRecord) bool
		if c := ctx.ContinentOrAll(); c != domain.All {
			keep = func(r *domain.JoinedRecord) bool { return r.Continent != nil && *r.Continent == c }
		}
		return textOptions(distinct(records, fieldValue(field), keep)), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
}

// dateParts collects the sorted distinct parts of DateFlown within the given year and month.
func dateParts(records []domain.JoinedRecord, year, month *int, part func(time.Time) int) []int {
	seen := map[int]struct{}{}
	var out []int
	for i := range records {
		d := records[i].DateFlown
		if d == nil {
			continue
		}
		if year != nil && d.Year() != *year {
			continue
		}
		if month != nil && int(d.Month()) != *month {
			continue
		}
		p := part(*d)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// distinct returns non-null values in first-appearance order.
func distinct(records []domain.JoinedRecord, get func(*domain.JoinedRecord) (string, bool), keep func(*domain.JoinedRecord) bool) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for i := range records {
		r := &records[i]
		if keep != nil && !keep(r) {
			continue
		}
		v, ok := get(r)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func intOptions(vals []int, label func(int) string) []domain.Option {
	out := make([]domain.Option, len(vals))
	for i, v := range vals {
		out[i] = domain.Option{Value: strconv.Itoa(v), Label: label(v)}
	}
	return out
}

func textOptions(vals []string) []domain.Option {
	out := make([]domain.Option, len(vals))
	for i, v := range vals {
		out[i] = domain.Option{Value: v, Label: v}
	}
	return out
}
