package app

import (
	"ba_dashboard/internal/domain"
)

type predicate func(r *domain.JoinedRecord) bool

// ApplyFilters returns the records matching every active filter of st, in input
// order. The input slice is never modified and the result is a fresh slice.
func ApplyFilters(records []domain.JoinedRecord, st domain.FilterState) []domain.JoinedRecord {
	preds := predicates(st)
	out := make([]domain.JoinedRecord, 0, len(records))
rows:
	for i := range records {
		for _, p := range preds {
			if !p(&records[i]) {
				continue rows
			}
		}
		out = append(out, records[i])
	}
	return out
}

func predicates(st domain.FilterState) []predicate {
	var preds []predicate
	if p := datePredicate(st); p != nil {
		preds = append(preds, p)
	}
	for _, f := range []domain.Field{
		domain.FieldTravellerType,
		domain.FieldRecommended,
		domain.FieldAircraftGrouped,
		domain.FieldSeatType,
		domain.FieldCountry,
	} {
		if p := selectionPredicate(f, st.Selection(f)); p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}

// datePredicate honours Month only under Year, and Day only under both.
func datePredicate(st domain.FilterState) predicate {
	if st.Year == nil {
		return nil
	}
	year := *st.Year
	month, day := 0, 0
	if st.Month != nil {
		month = *st.Month
		if st.Day != nil {
			day = *st.Day
		}
	}
	return func(r *domain.JoinedRecord) bool {
		d := r.DateFlown
		if d == nil || d.Year() != year {
			return false
		}
		if month != 0 && int(d.Month()) != month {
			return false
		}
		if day != 0 && d.Day() != day {
			return false
		}
		return true
	}
}

func selectionPredicate(f domain.Field, sel []string) predicate {
	values, all := domain.NormalizeSelection(sel)
	if all {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	get := fieldValue(f)
	return func(r *domain.JoinedRecord) bool {
		v, ok := get(r)
		if !ok {
			return false
		}
		_, hit := set[v]
		return hit
	}
}

// fieldValue returns the accessor for a categorical field; ok is false for a null cell.
func fieldValue(f domain.Field) func(r *domain.JoinedRecord) (string, bool) {
	str := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	switch f {
	case domain.FieldTravellerType:
		return func(r *domain.JoinedRecord) (string, bool) { return str(r.TravellerType) }
	case domain.FieldRecommended:
		return func(r *domain.JoinedRecord) (string, bool) { return str(r.Recommended) }
	case domain.FieldAircraftGrouped:
		return func(r *domain.JoinedRecord) (string, bool) { return r.AircraftGrouped, true }
	case domain.FieldSeatType:
		return func(r *domain.JoinedRecord) (string, bool) { return str(r.SeatType) }
	case domain.FieldCountry:
		return func(r *domain.JoinedRecord) (string, bool) { return str(r.PlaceCleaned) }
	case domain.FieldContinent:
		return func(r *domain.JoinedRecord) (string, bool) { return str(r.Continent) }
	}
	return func(*domain.JoinedRecord) (string, bool) { return "", false }
}
