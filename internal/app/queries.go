package app

import (
	"context"

	"ba_dashboard/internal/adapters/observability"
	"ba_dashboard/internal/domain"
)

type DatasetProvider interface {
	Dataset(ctx context.Context) (*domain.Dataset, error)
}

// QueryService answers presentation-layer requests against the memoized
// dataset. Filter results are computed per call and never cached.
type QueryService struct {
	ds DatasetProvider
}

func NewQueryService(ds DatasetProvider) *QueryService {
	return &QueryService{ds: ds}
}

func (s *QueryService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	ds, err := s.ds.Dataset(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	return domain.DatasetSummary{
		Identity:    ds.Identity,
		Rows:        len(ds.Records),
		Columns:     ds.Columns,
		TopAircraft: ds.TopAircraft,
		BuiltAt:     ds.BuiltAt,
	}, nil
}

// ListReviews filters the dataset and returns one page of it. A non-positive
// limit returns every matching row.
func (s *QueryService) ListReviews(ctx context.Context, st domain.FilterState, pg domain.PageQuery) (domain.ReviewsPage, error) {
	rows, err := s.filtered(ctx, st)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	out := domain.ReviewsPage{Total: len(rows)}
	lo := min(max(pg.Offset, 0), len(rows))
	hi := len(rows)
	if pg.Limit > 0 {
		hi = min(lo+pg.Limit, len(rows))
	}
	out.Items = rows[lo:hi]
	return out, nil
}

func (s *QueryService) CountByCountry(ctx context.Context, st domain.FilterState) ([]domain.CountryCount, error) {
	rows, err := s.filtered(ctx, st)
	if err != nil {
		return nil, err
	}
	return CountByCountry(rows), nil
}

func (s *QueryService) Options(ctx context.Context, field domain.Field, st domain.FilterState) ([]domain.Option, error) {
	ds, err := s.ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOptions(ds.Records, field, st)
}

func (s *QueryService) filtered(ctx context.Context, st domain.FilterState) ([]domain.JoinedRecord, error) {
	ds, err := s.ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	rows := ApplyFilters(ds.Records, st)
	observability.ObserveFilter(len(rows))
	return rows, nil
}
