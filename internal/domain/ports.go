package domain

import (
	"context"
	"time"
)

// Source loads the two raw input tables.
type Source interface {
	// Identity changes whenever the underlying inputs change.
	Identity(ctx context.Context) (string, error)
	Load(ctx context.Context) (RawTables, error)
}

// Fetcher reads a whole remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PageQuery struct {
	Limit  int
	Offset int
}

type ReviewsPage struct {
	Total int            `json:"total"`
	Items []JoinedRecord `json:"items"`
}

type DatasetSummary struct {
	Identity    string    `json:"identity"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	TopAircraft []string  `json:"top_aircraft"`
	BuiltAt     time.Time `json:"built_at"`
}
