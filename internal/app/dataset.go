package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"ba_dashboard/internal/adapters/observability"
	"ba_dashboard/internal/domain"
)

type DatasetConfig struct {
	CacheTTL time.Duration
	// Revalidate is the minimum time between identity checks; zero checks on every call.
	Revalidate time.Duration
	Join       JoinOptions
}

// DatasetService memoizes the joined dataset per input identity. The cache is
// an optional second level shared between processes.
type DatasetService struct {
	src   domain.Source
	cache domain.Cache
	cfg   DatasetConfig
	now   func() time.Time

	mu        sync.RWMutex
	current   *domain.Dataset
	checkedAt time.Time
	stale     bool

	group singleflight.Group
}

func NewDatasetService(src domain.Source, cache domain.Cache, cfg DatasetConfig) *DatasetService {
	return &DatasetService{src: src, cache: cache, cfg: cfg, now: time.Now}
}

// Dataset returns the joined dataset for the current inputs, building it only
// when their identity changed. The result is shared and must not be modified.
func (s *DatasetService) Dataset(ctx context.Context) (*domain.Dataset, error) {
	s.mu.RLock()
	cur := s.current
	fresh := cur != nil && !s.stale && s.now().Sub(s.checkedAt) < s.cfg.Revalidate
	s.mu.RUnlock()
	if fresh {
		observability.ObserveCache("memory", "hit")
		return cur, nil
	}

	// The shared build outlives any one caller; each caller only stops waiting.
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("dataset", func() (any, error) {
		return s.refresh(buildCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Dataset), nil
	}
}

// Invalidate forces the next Dataset call to re-check the input identity.
func (s *DatasetService) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *DatasetService) refresh(ctx context.Context) (*domain.Dataset, error) {
	id, err := s.src.Identity(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur != nil && cur.Identity == id {
		observability.ObserveCache("memory", "hit")
		s.store(cur)
		return cur, nil
	}
	observability.ObserveCache("memory", "miss")

	if s.cache != nil {
		var cached domain.Dataset
		ok, err := s.cache.Get(ctx, datasetKey(id), &cached)
		if err != nil {
			log.Warn().Err(err).Str("identity", id).Msg("dataset cache read failed")
		}
		if ok && err == nil {
			log.Info().Str("identity", id).Int("rows", len(cached.Records)).Msg("dataset served from cache")
			s.store(&cached)
			return &cached, nil
		}
	}

	ds, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ds)

	if s.cache != nil {
		if err := s.cache.Set(ctx, datasetKey(ds.Identity), ds, int(s.cfg.CacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("identity", ds.Identity).Msg("dataset cache write failed")
		}
	}
	return ds, nil
}

func (s *DatasetService) store(ds *domain.Dataset) {
	s.mu.Lock()
	s.current = ds
	s.checkedAt = s.now()
	s.stale = false
	s.mu.Unlock()
}

// Build runs load, clean and join without consulting the memo.
func (s *DatasetService) Build(ctx context.Context) (*domain.Dataset, error) {
	start := s.now()
	ds, err := s.build(ctx)
	dur := s.now().Sub(start)
	observability.ObservePipeline(outcome(err), dur)
	if err != nil {
		log.Error().Err(err).Dur("duration", dur).Msg("dataset build failed")
		return nil, err
	}
	log.Info().
		Str("identity", ds.Identity).
		Int("rows", len(ds.Records)).
		Strs("top_aircraft", ds.TopAircraft).
		Dur("duration", dur).
		Msg("dataset built")
	return ds, nil
}

func (s *DatasetService) build(ctx context.Context) (*domain.Dataset, error) {
	raw, err := s.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if raw.Identity == "" {
		if raw.Identity, err = s.src.Identity(ctx); err != nil {
			return nil, err
		}
	}
	reviews, countries, err := Clean(raw)
	if err != nil {
		return nil, err
	}
	joined, top, err := Join(reviews, countries, s.cfg.Join)
	if err != nil {
		return nil, err
	}
	return &domain.Dataset{
		Identity:    raw.Identity,
		Columns:     raw.ReviewColumns,
		Records:     joined,
		TopAircraft: top,
		BuiltAt:     s.now().UTC(),
	}, nil
}

func datasetKey(identity string) string { return "dataset:" + identity }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrLoad):
		return "load_error"
	case errors.Is(err, domain.ErrData):
		return "data_error"
	}
	return "error"
}
