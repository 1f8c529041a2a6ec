package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"ba_dashboard/internal/adapters/httpsource"
	"ba_dashboard/internal/adapters/observability"
	redisad "ba_dashboard/internal/adapters/redis"
	"ba_dashboard/internal/app"
	"ba_dashboard/internal/domain"
	"ba_dashboard/internal/shared"
	"ba_dashboard/internal/storage/file"
	mysqlsrc "ba_dashboard/internal/storage/mysql"
)

const sampleRows = 5

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("source", cfg.Source).
		Str("reviews", cfg.ReviewsPath).
		Str("countries", cfg.CountriesPath).
		Msg("preprocess starting")

	var src domain.Source
	if cfg.Source == shared.SourceMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		src = mysqlsrc.New(db)
	} else {
		src = file.New(cfg.ReviewsPath, cfg.CountriesPath, httpsource.New(cfg.FetchRPS))
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cache will not be warmed")
		} else {
			cache = rc
		}
	}

	ds := app.NewDatasetService(src, cache, app.DatasetConfig{
		CacheTTL: cfg.CacheTTL,
		Join:     app.JoinOptions{AllowDuplicateCountries: cfg.AllowDuplicateCountries},
	})
	data, err := ds.Dataset(ctx)
	if err != nil {
		log.Error().Err(err).Msg("preprocess failed")
		os.Exit(1)
	}

	log.Info().
		Str("identity", data.Identity).
		Int("rows", len(data.Records)).
		Strs("passthrough_columns", data.Columns).
		Strs("top_aircraft", data.TopAircraft).
		Bool("cache_warmed", cache != nil).
		Msg("dataset ready")

	for i := range min(sampleRows, len(data.Records)) {
		r := data.Records[i]
		ev := log.Info().Int("row", i)
		if r.DateFlown != nil {
			ev = ev.Time("date_flown", *r.DateFlown)
		}
		ev.
			Str("place", str(r.PlaceCleaned)).
			Str("continent", str(r.Continent)).
			Str("traveller_type", str(r.TravellerType)).
			Str("recommended", str(r.Recommended)).
			Str("aircraft_grouped", r.AircraftGrouped).
			Str("seat_type", str(r.SeatType)).
			Msg("sample")
	}

	counts := app.CountByCountry(data.Records)
	for _, c := range counts[:min(sampleRows, len(counts))] {
		log.Info().Str("country", c.Country).Int("reviews", c.Count).Msg("top country")
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
